// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"math"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// Write encodes interleaved integer PCM samples as a WAV file.
// samples holds values in the signed range of bitDepth; len(samples) must be
// a multiple of channels. go-audio rewrites the RIFF and data sizes on close,
// which is why w must be seekable.
func Write(w io.WriteSeeker, sampleRate, bitDepth, channels int, samples []int) error {
	if sampleRate <= 0 || channels <= 0 {
		return ErrInvalidWriterFormat
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return ErrUnsupportedBitDepth
	}
	if len(samples)%channels != 0 {
		return ErrInvalidSampleCount
	}

	enc := gowav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// Tone renders a sine wave of freq Hz lasting d, at half scale, as
// interleaved samples for Write. Every channel carries the same signal.
func Tone(sampleRate, bitDepth, channels int, freq float64, d time.Duration) []int {
	frames := int(d.Seconds() * float64(sampleRate))
	if frames <= 0 || channels <= 0 {
		return nil
	}

	peak := float64(int64(1)<<(bitDepth-1)-1) / 2
	samples := make([]int, frames*channels)

	for i := range frames {
		t := float64(i) / float64(sampleRate)
		v := int(math.Round(peak * math.Sin(2*math.Pi*freq*t)))
		for ch := range channels {
			samples[i*channels+ch] = v
		}
	}

	return samples
}
