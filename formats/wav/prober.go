// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audiodwc/audio"
)

const (
	formatPCM        = 0x0001
	formatIEEEFloat  = 0x0003
	formatExtensible = 0xFFFE

	riffHeaderSize  = 12
	chunkHeaderSize = 8
	minFmtSize      = 16
	// Largest fmt body we read; anything past it is skipped.
	maxFmtSize = 64
)

// fmtChunk holds the fields of the "fmt " sub-chunk that matter for metadata.
type fmtChunk struct {
	format        uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
}

func (f fmtChunk) bytesPerSample() int { return (int(f.bitsPerSample) + 7) / 8 }

func (f fmtChunk) frameSize() int { return int(f.channels) * f.bytesPerSample() }

// Prober reads RIFF/WAVE headers.
type Prober struct{}

// Probe walks the RIFF chunk list, reading the fmt sub-chunk and locating the
// data sub-chunk. Unknown chunks are skipped, honouring the pad byte of
// odd-sized chunks. The data size is clamped to what is actually present in
// r, so a recording cut short (or streamed with a 0xFFFFFFFF size) reports
// the frames it really holds.
func (Prober) Probe(r io.ReadSeeker) (audio.Info, error) {
	total, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}

	header := make([]byte, riffHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return audio.Info{}, formatErr(fmt.Errorf("%w: %w", ErrTruncatedHeader, err))
	}
	if !bytes.Equal(header[0:4], []byte("RIFF")) || !bytes.Equal(header[8:12], []byte("WAVE")) {
		return audio.Info{}, formatErr(ErrNotWavFile)
	}

	var (
		fc       fmtChunk
		haveFmt  bool
		dataSize int64
		haveData bool
		pos      = int64(riffHeaderSize)
		chunkHdr = make([]byte, chunkHeaderSize)
	)

	for !(haveFmt && haveData) {
		if _, err := io.ReadFull(r, chunkHdr); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return audio.Info{}, fmt.Errorf("%w", err)
		}
		pos += chunkHeaderSize

		id := string(chunkHdr[0:4])
		size := int64(binary.LittleEndian.Uint32(chunkHdr[4:8]))
		next := pos + size + size%2

		switch id {
		case "fmt ":
			if !haveFmt {
				if fc, err = readFmt(r, size); err != nil {
					return audio.Info{}, formatErr(err)
				}
				haveFmt = true
			}

		case "data":
			if !haveData {
				dataSize = min(size, max(total-pos, 0))
				haveData = true
			}
		}

		if !(haveFmt && haveData) {
			if _, err := r.Seek(next, io.SeekStart); err != nil {
				return audio.Info{}, fmt.Errorf("%w", err)
			}
		}
		pos = next
	}

	if !haveFmt {
		return audio.Info{}, formatErr(ErrMissingFmtChunk)
	}
	if !haveData {
		return audio.Info{}, formatErr(ErrMissingDataChunk)
	}
	if err := fc.validate(); err != nil {
		return audio.Info{}, formatErr(err)
	}

	return audio.Info{
		Format:     "wav",
		Channels:   int(fc.channels),
		SampleRate: int(fc.sampleRate),
		BitDepth:   fc.bytesPerSample() * 8,
		Frames:     dataSize / int64(fc.frameSize()),
	}, nil
}

func readFmt(r io.Reader, size int64) (fmtChunk, error) {
	if size < minFmtSize {
		return fmtChunk{}, fmt.Errorf("%w: %d bytes", ErrMalformedFmtChunk, size)
	}

	body := make([]byte, min(size, maxFmtSize))
	if _, err := io.ReadFull(r, body); err != nil {
		return fmtChunk{}, fmt.Errorf("%w: %w", ErrMalformedFmtChunk, err)
	}

	fc := fmtChunk{
		format:        binary.LittleEndian.Uint16(body[0:2]),
		channels:      binary.LittleEndian.Uint16(body[2:4]),
		sampleRate:    binary.LittleEndian.Uint32(body[4:8]),
		bitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
	}

	// WAVE_FORMAT_EXTENSIBLE carries the real format code at the start of
	// the SubFormat GUID.
	if fc.format == formatExtensible && len(body) >= 26 {
		fc.format = binary.LittleEndian.Uint16(body[24:26])
	}

	return fc, nil
}

func (f fmtChunk) validate() error {
	switch {
	case f.format != formatPCM && f.format != formatIEEEFloat:
		return fmt.Errorf("%w: format tag 0x%04x", ErrUnsupportedEncoding, f.format)
	case f.channels == 0:
		return fmt.Errorf("%w: zero channels", ErrMalformedFmtChunk)
	case f.bitsPerSample == 0:
		return fmt.Errorf("%w: zero bits per sample", ErrMalformedFmtChunk)
	case f.sampleRate == 0:
		return ErrZeroSampleRate
	}
	return nil
}

func formatErr(err error) error {
	return audio.NewFormatError("invalid WAV", err)
}
