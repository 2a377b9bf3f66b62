// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Chunk is an extra RIFF sub-chunk placed before the fmt chunk.
type Chunk struct {
	ID   string
	Data []byte
}

// WAV describes a RIFF/WAVE file to build byte by byte, so tests can produce
// layouts that a conforming encoder never would.
type WAV struct {
	Format        uint16 // 1 PCM, 3 IEEE float, 0xFFFE extensible
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	Frames        int

	// Extra chunks written between "WAVE" and "fmt ".
	Extra []Chunk
	// Trailing chunks written after the data chunk.
	Trailing []Chunk
	// FmtSize overrides the fmt chunk size (16, 18 or 40 are typical).
	FmtSize uint32
	// DataSize overrides the declared data chunk size.
	DataSize *uint32
	// OmitFmt and OmitData drop the respective sub-chunks.
	OmitFmt  bool
	OmitData bool
	// DataFirst writes the data chunk before the fmt chunk.
	DataFirst bool
}

// PCM returns a canonical PCM description.
func PCM(sampleRate, channels, bitsPerSample, frames int) WAV {
	return WAV{
		Format:        1,
		Channels:      uint16(channels),
		SampleRate:    uint32(sampleRate),
		BitsPerSample: uint16(bitsPerSample),
		Frames:        frames,
	}
}

func (w WAV) blockAlign() int {
	return int(w.Channels) * ((int(w.BitsPerSample) + 7) / 8)
}

func (w WAV) fmtChunk() []byte {
	size := w.FmtSize
	if size == 0 {
		size = 16
		if w.Format == 0xFFFE {
			size = 40
		}
	}

	body := make([]byte, size)
	if size >= 16 {
		binary.LittleEndian.PutUint16(body[0:2], w.Format)
		binary.LittleEndian.PutUint16(body[2:4], w.Channels)
		binary.LittleEndian.PutUint32(body[4:8], w.SampleRate)
		binary.LittleEndian.PutUint32(body[8:12], w.SampleRate*uint32(w.blockAlign()))
		binary.LittleEndian.PutUint16(body[12:14], uint16(w.blockAlign()))
		binary.LittleEndian.PutUint16(body[14:16], w.BitsPerSample)
	} else {
		// Deliberately short: copy as much of the canonical layout as fits.
		full := WAV{Format: w.Format, Channels: w.Channels, SampleRate: w.SampleRate, BitsPerSample: w.BitsPerSample, FmtSize: 16}.fmtChunk()
		copy(body, full[8:])
	}
	if w.Format == 0xFFFE && size >= 40 {
		binary.LittleEndian.PutUint16(body[16:18], 22)
		binary.LittleEndian.PutUint16(body[18:20], w.BitsPerSample)
		// SubFormat GUID, first two bytes carry the actual format code (PCM).
		binary.LittleEndian.PutUint16(body[24:26], 1)
	}

	return chunkBytes("fmt ", body)
}

func (w WAV) dataChunk() []byte {
	payload := make([]byte, w.Frames*w.blockAlign())
	out := chunkBytes("data", payload)
	if w.DataSize != nil {
		binary.LittleEndian.PutUint32(out[4:8], *w.DataSize)
	}
	return out
}

// Bytes renders the file.
func (w WAV) Bytes() []byte {
	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	for _, c := range w.Extra {
		body.Write(chunkBytes(c.ID, c.Data))
	}

	if w.DataFirst && !w.OmitData {
		body.Write(w.dataChunk())
	}
	if !w.OmitFmt {
		body.Write(w.fmtChunk())
	}
	if !w.DataFirst && !w.OmitData {
		body.Write(w.dataChunk())
	}

	for _, c := range w.Trailing {
		body.Write(chunkBytes(c.ID, c.Data))
	}

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// WriteFile renders the file into dir/name and returns its path.
func (w WAV) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	return WriteFile(t, dir, name, w.Bytes())
}

// WriteFile writes raw bytes into dir/name and returns its path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// chunkBytes encodes id+size+data, adding the pad byte for odd sizes.
func chunkBytes(id string, data []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(id)
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// Truncate returns the first n bytes of data.
func Truncate(data []byte, n int) []byte {
	if n > len(data) {
		n = len(data)
	}
	return append([]byte(nil), data[:n]...)
}

// Uint32 returns a pointer to v, for WAV.DataSize.
func Uint32(v uint32) *uint32 { return &v }
