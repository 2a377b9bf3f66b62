// SPDX-License-Identifier: EPL-2.0

// Package vorbis probes Ogg Vorbis streams.
//
// This package uses github.com/jfreymuth/oggvorbis to read the identification
// header and, on a seekable input, the granule position of the last page,
// which gives the stream length in samples per channel.
//
// # Probing Ogg Vorbis Files
//
//	file, _ := os.Open("night-survey.ogg")
//	defer file.Close()
//	info, err := vorbis.Prober{}.Probe(file)
//
// # Reported Values
//
//   - Sample rate and channels: from the identification header
//   - Bit depth: 32, since Vorbis decodes to float32 and stores no sample width
//   - Frames: stream length in samples per channel
//
// An empty stream (zero length) cannot be told apart from an unknown length
// and is rejected with ErrUnknownLength.
//
// # Error Handling
//
//   - ErrNotVorbisFile: not an Ogg container or not a Vorbis stream
//   - ErrInvalidHeader: zero sample rate or channel count
//   - ErrUnknownLength: the length could not be determined
//
// All are wrapped in an *audio.FormatError.
package vorbis
