// SPDX-License-Identifier: EPL-2.0

// Package mp3 probes MP3 streams.
//
// This package uses github.com/hajimehoshi/go-mp3 to read frame headers.
// go-mp3 walks the frames of a seekable stream to compute the decoded length,
// so probing costs one pass over the frame headers but no synthesis.
//
// # Probing MP3 Files
//
//	file, _ := os.Open("transect-03.mp3")
//	defer file.Close()
//	info, err := mp3.Prober{}.Probe(file)
//
// # Reported Values
//
//   - Sample rate: from the frame headers
//   - Channels: 2, the decoded output (go-mp3 upmixes mono)
//   - Bit depth: 16, the decoded output
//   - Frames: decoded length in bytes / 4
//
// # Error Handling
//
//   - ErrNotMP3File: go-mp3 could not find a valid frame
//   - ErrUnknownLength: the stream length could not be computed
//   - ErrZeroSampleRate: the header declares no sample rate
//
// All are wrapped in an *audio.FormatError.
package mp3
