// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audiodwc/audio"
	"github.com/jfreymuth/oggvorbis"
)

// Vorbis has no stored sample width; the decoder produces float32 samples.
const decodedBitDepth = 32

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Length is the stream length in samples per channel, 0 when unknown.
	Length() int64
}

// Prober reads Ogg Vorbis headers through github.com/jfreymuth/oggvorbis.
type Prober struct{}

func (Prober) Probe(r io.ReadSeeker) (audio.Info, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}

	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return audio.Info{}, audio.NewFormatError("invalid Ogg Vorbis", fmt.Errorf("%w: %w", ErrNotVorbisFile, err))
	}

	return infoFrom(dec)
}

func infoFrom(dec oggReader) (audio.Info, error) {
	if dec.SampleRate() <= 0 || dec.Channels() <= 0 {
		return audio.Info{}, audio.NewFormatError("invalid Ogg Vorbis", ErrInvalidHeader)
	}

	length := dec.Length()
	if length <= 0 {
		return audio.Info{}, audio.NewFormatError("invalid Ogg Vorbis", ErrUnknownLength)
	}

	return audio.Info{
		Format:     "vorbis",
		Channels:   dec.Channels(),
		SampleRate: dec.SampleRate(),
		BitDepth:   decodedBitDepth,
		Frames:     length,
	}, nil
}
