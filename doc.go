// SPDX-License-Identifier: EPL-2.0

// Package audiodwc extracts technical metadata from bioacoustic recordings.
//
// This package reads audio container headers (duration, sample rate, bit
// depth, channel count) so recordings can be published as Darwin Core
// occurrences with an EML dataset descriptor. The publishing steps live in the
// audiodwc command; this package is the library half.
//
// # Supported Formats
//
// The package probes the following containers:
//   - WAV (PCM, IEEE float, extensible) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Quick Start
//
// The simplest way to read a recording is Extract:
//
//	meta, err := audiodwc.Extract("media/a.wav")
//	if err != nil {
//	    // *audio.NotFoundError or *audio.FormatError
//	}
//	fmt.Println(meta.FileName, meta.DurationSeconds, meta.SamplingRateHz)
//
// # Batches
//
// ExtractDir lists a media folder in name order and probes every file with a
// registered extension:
//
//	reg, _ := audiodwc.NewRegistry("wav", "aiff")
//	res, err := audiodwc.ExtractDir(ctx, "media", audiodwc.Options{
//	    Registry:    reg,
//	    SkipInvalid: true,
//	})
//	for _, s := range res.Skipped {
//	    log.Printf("skipped %s: %v", s.Path, s.Err)
//	}
//
// Set Options.Workers to probe files concurrently; records keep the listing
// order either way.
//
// # Technical Metadata
//
// Each record carries, in publishing order:
//   - file_name: base name of the recording
//   - duration_seconds: frames / sample rate, rounded to 3 decimals
//   - sampling_rate_hz
//   - bit_depth: stored sample width in bits
//   - channels
//
// See the individual subpackages for more detailed documentation.
package audiodwc
