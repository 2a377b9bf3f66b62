// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("not a RIFF/WAVE file")
	ErrTruncatedHeader     = errors.New("truncated RIFF header")
	ErrMissingFmtChunk     = errors.New("missing fmt sub-chunk")
	ErrMissingDataChunk    = errors.New("missing data sub-chunk")
	ErrMalformedFmtChunk   = errors.New("malformed fmt sub-chunk")
	ErrZeroSampleRate      = errors.New("zero sample rate")
	ErrUnsupportedEncoding = errors.New("unsupported WAV encoding")

	ErrUnsupportedBitDepth = errors.New("bit depth must be 8, 16, 24 or 32")
	ErrInvalidSampleCount  = errors.New("sample count must be multiple of channels")
	ErrInvalidWriterFormat = errors.New("sample rate and channels must be positive")
)
