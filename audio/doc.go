// SPDX-License-Identifier: EPL-2.0

// Package audio provides the format-independent types shared by all probers.
//
// This package contains:
//   - Info, the raw facts read from a container header
//   - Prober interface, implemented by each format package
//   - Registry for prober lookup by file extension
//   - TechnicalMetadata, the published per-recording record
//   - FormatError and NotFoundError
//
// # Prober Interface
//
//	type Prober interface {
//	    Probe(r io.ReadSeeker) (Info, error)
//	}
//
// A prober only reads headers. It never decodes the audio payload, so probing
// a two hour recording costs the same as probing a two second one.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Prober{})
//	prober, _ := registry.Get(".WAV") // extensions are case-insensitive
//
// # Technical Metadata
//
// NewTechnicalMetadata turns an Info into the record published in
// metadata_extracted.csv:
//
//	meta, err := audio.NewTechnicalMetadata("a.wav", info)
//	// meta.DurationSeconds == frames / sample rate, rounded to 3 decimals
//
// The constructor rejects a zero sample rate or channel count with a
// *FormatError: such a header has no meaningful duration.
//
// # Error Handling
//
// Two error kinds leave this package:
//
//	if errors.Is(err, audio.ErrNotFound) {
//	    // path missing or unreadable
//	}
//	if errors.Is(err, audio.ErrFormat) {
//	    // container malformed, sub-chunk missing, or zero sample rate
//	}
//
// Use errors.As to get the *FormatError and its Reason.
package audio
