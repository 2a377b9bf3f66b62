// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ik5/audiodwc/audio"
)

// mockOggVorbisReader simulates oggvorbis.Reader for testing
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	length     int64
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }
func (m *mockOggVorbisReader) Length() int64   { return m.length }

func TestProber_InvalidInput(t *testing.T) {
	t.Parallel()

	invalidData := []byte("This is not Ogg Vorbis data")

	_, err := Prober{}.Probe(bytes.NewReader(invalidData))
	if !errors.Is(err, ErrNotVorbisFile) {
		t.Errorf("Probe() error = %v, want ErrNotVorbisFile", err)
	}
	if !errors.Is(err, audio.ErrFormat) {
		t.Errorf("Probe() error = %v, want audio.ErrFormat", err)
	}
}

func TestProber_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Prober{}.Probe(bytes.NewReader([]byte{}))
	if !errors.Is(err, audio.ErrFormat) {
		t.Errorf("Probe() error = %v, want audio.ErrFormat for empty input", err)
	}
}

func TestInfoFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dec  *mockOggVorbisReader
		want audio.Info
	}{
		{
			name: "stereo 44.1kHz",
			dec:  &mockOggVorbisReader{sampleRate: 44100, channels: 2, length: 88200},
			want: audio.Info{Format: "vorbis", Channels: 2, SampleRate: 44100, BitDepth: 32, Frames: 88200},
		},
		{
			name: "mono 48kHz",
			dec:  &mockOggVorbisReader{sampleRate: 48000, channels: 1, length: 24000},
			want: audio.Info{Format: "vorbis", Channels: 1, SampleRate: 48000, BitDepth: 32, Frames: 24000},
		},
		{
			name: "5.1 surround",
			dec:  &mockOggVorbisReader{sampleRate: 48000, channels: 6, length: 480},
			want: audio.Info{Format: "vorbis", Channels: 6, SampleRate: 48000, BitDepth: 32, Frames: 480},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := infoFrom(tt.dec)
			if err != nil {
				t.Fatalf("infoFrom() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("infoFrom() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoFrom_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dec  *mockOggVorbisReader
		want error
	}{
		{"zero sample rate", &mockOggVorbisReader{sampleRate: 0, channels: 2, length: 10}, ErrInvalidHeader},
		{"zero channels", &mockOggVorbisReader{sampleRate: 44100, channels: 0, length: 10}, ErrInvalidHeader},
		{"unknown length", &mockOggVorbisReader{sampleRate: 44100, channels: 2, length: 0}, ErrUnknownLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := infoFrom(tt.dec)
			if !errors.Is(err, tt.want) {
				t.Errorf("infoFrom() error = %v, want %v", err, tt.want)
			}
		})
	}
}
