// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/audiodwc/audio"
)

// header is the subset of the COMM chunk a probe needs.
type header struct {
	channels   int
	frames     int64
	bitDepth   int
	sampleRate int
}

// Prober reads AIFF COMM chunks through github.com/go-audio/aiff.
type Prober struct{}

func (Prober) Probe(r io.ReadSeeker) (audio.Info, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}

	dec := aiff.NewDecoder(r)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return audio.Info{}, audio.NewFormatError("invalid AIFF", fmt.Errorf("%w: %w", ErrNotAiffFile, err))
	}
	if !dec.IsValidFile() {
		return audio.Info{}, audio.NewFormatError("invalid AIFF", ErrNotAiffFile)
	}

	return infoFrom(header{
		channels:   int(dec.NumChans),
		frames:     int64(dec.NumSampleFrames),
		bitDepth:   int(dec.BitDepth),
		sampleRate: dec.SampleRate,
	})
}

func infoFrom(h header) (audio.Info, error) {
	if h.channels <= 0 || h.sampleRate <= 0 || h.bitDepth <= 0 {
		return audio.Info{}, audio.NewFormatError("invalid AIFF", ErrUnsupportedAiffLayout)
	}

	return audio.Info{
		Format:     "aiff",
		Channels:   h.channels,
		SampleRate: h.sampleRate,
		// Stored width, like WAV: 12-bit samples occupy two bytes.
		BitDepth: (h.bitDepth + 7) / 8 * 8,
		Frames:   h.frames,
	}, nil
}
