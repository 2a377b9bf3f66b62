// SPDX-License-Identifier: EPL-2.0

// Package aiff probes AIFF (Audio Interchange File Format) headers.
//
// This package uses github.com/go-audio/aiff to read the COMM chunk, which
// holds channel count, sample frame count, sample size and the sample rate
// (stored as an 80-bit extended float).
//
// # Probing AIFF Files
//
//	file, _ := os.Open("dawn-chorus.aif")
//	defer file.Close()
//	info, err := aiff.Prober{}.Probe(file)
//	if err != nil {
//	    // Handle error
//	}
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but:
//   - Uses big-endian byte order (WAV uses little-endian)
//   - Stores the frame count in the header (WAV derives it from the data size)
//   - Stores sample rate as 80-bit float (WAV uses 32-bit int)
//
// # Error Handling
//
//   - ErrNotAiffFile: The input is not a valid AIFF file
//   - ErrUnsupportedAiffLayout: zero channels, sample rate or sample size
//
// Both are wrapped in an *audio.FormatError.
//
// # File Extensions
//
// AIFF files typically use .aif or .aiff.
package aiff
