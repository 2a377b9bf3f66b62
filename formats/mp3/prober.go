// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audiodwc/audio"
)

// go-mp3 always decodes to interleaved 16-bit little-endian stereo.
const (
	decodedChannels = 2
	decodedBitDepth = 16
	bytesPerFrame   = decodedChannels * decodedBitDepth / 8
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	SampleRate() int
	// Length is the decoded stream size in bytes, or -1 when unknown.
	Length() int64
}

// Prober reads MP3 frame headers through github.com/hajimehoshi/go-mp3.
//
// Channel count and bit depth describe the decoded PCM stream, which is what
// go-mp3 exposes: mono MP3 files are reported as stereo 16-bit.
type Prober struct{}

func (Prober) Probe(r io.ReadSeeker) (audio.Info, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}

	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return audio.Info{}, audio.NewFormatError("invalid MP3", fmt.Errorf("%w: %w", ErrNotMP3File, err))
	}

	return infoFrom(dec)
}

func infoFrom(dec mp3Reader) (audio.Info, error) {
	if dec.SampleRate() <= 0 {
		return audio.Info{}, audio.NewFormatError("invalid MP3", ErrZeroSampleRate)
	}

	length := dec.Length()
	if length < 0 {
		return audio.Info{}, audio.NewFormatError("invalid MP3", ErrUnknownLength)
	}

	return audio.Info{
		Format:     "mp3",
		Channels:   decodedChannels,
		SampleRate: dec.SampleRate(),
		BitDepth:   decodedBitDepth,
		Frames:     length / bytesPerFrame,
	}, nil
}
