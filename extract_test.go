// SPDX-License-Identifier: EPL-2.0

package audiodwc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ik5/audiodwc/audio"
	"github.com/ik5/audiodwc/internal/audiotest"
)

func TestExtract_TwoSecondMono(t *testing.T) {
	t.Parallel()

	path := audiotest.PCM(44100, 1, 16, 88200).WriteFile(t, t.TempDir(), "a.wav")

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := audio.TechnicalMetadata{FileName: "a.wav", DurationSeconds: 2.0, SamplingRateHz: 44100, BitDepth: 16, Channels: 1}
	if got != want {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtract_DurationIndependentOfChannelsAndWidth(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	frames := 12345

	var durations []float64
	for i, w := range []audiotest.WAV{
		audiotest.PCM(44100, 1, 16, frames),
		audiotest.PCM(44100, 2, 16, frames),
		audiotest.PCM(44100, 2, 24, frames),
		audiotest.PCM(44100, 1, 8, frames),
	} {
		meta, err := Extract(w.WriteFile(t, dir, string(rune('a'+i))+".wav"))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		durations = append(durations, meta.DurationSeconds)
	}

	for _, d := range durations {
		if d != 0.28 {
			t.Errorf("DurationSeconds = %v, want 0.28 for every layout", d)
		}
	}
}

func TestExtract_ZeroFrames(t *testing.T) {
	t.Parallel()

	path := audiotest.PCM(44100, 1, 16, 0).WriteFile(t, t.TempDir(), "empty.wav")

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.DurationSeconds != 0.0 {
		t.Errorf("DurationSeconds = %v, want 0", got.DurationSeconds)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	path := audiotest.PCM(48000, 2, 24, 31337).WriteFile(t, t.TempDir(), "b.wav")

	first, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	second, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if first != second {
		t.Errorf("Extract() not idempotent: %+v != %+v", first, second)
	}
}

func TestExtract_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	canonical := audiotest.PCM(8000, 1, 16, 100).Bytes()

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing file", filepath.Join(dir, "nope.wav"), audio.ErrNotFound},
		{"directory", dir, audio.ErrNotFound},
		{"truncated before data", audiotest.WriteFile(t, dir, "cut.wav", audiotest.Truncate(canonical, 36)), audio.ErrFormat},
		{"not RIFF", audiotest.WriteFile(t, dir, "text.wav", []byte("hello")), audio.ErrFormat},
		{"zero sample rate", audiotest.PCM(0, 1, 16, 10).WriteFile(t, dir, "zero.wav"), audio.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Extract(tt.path)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Extract() error = %v, want %v", err, tt.want)
			}
			if got != (audio.TechnicalMetadata{}) {
				t.Errorf("Extract() returned partial record %+v", got)
			}
		})
	}
}

func TestExtract_FormatErrorCarriesPath(t *testing.T) {
	t.Parallel()

	path := audiotest.WriteFile(t, t.TempDir(), "bad.wav", []byte("RIFF\x04\x00\x00\x00WAVE"))

	_, err := Extract(path)

	var fe *audio.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Extract() error = %v, want *audio.FormatError", err)
	}
	if fe.Path != path {
		t.Errorf("FormatError.Path = %q, want %q", fe.Path, path)
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if got, want := reg.Extensions(), []string{"wav", "wave"}; !reflect.DeepEqual(got, want) {
		t.Errorf("default Extensions() = %v, want %v", got, want)
	}

	reg, err = NewRegistry("wav", "AIFF", "mp3", "ogg")
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	want := []string{"aif", "aiff", "mp3", "oga", "ogg", "wav", "wave"}
	if got := reg.Extensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}

	if _, err := NewRegistry("flac"); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("NewRegistry(flac) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractWith_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	reg, _ := NewRegistry()
	path := audiotest.PCM(8000, 1, 16, 8).WriteFile(t, t.TempDir(), "a.flac")

	if _, err := ExtractWith(reg, path); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("ExtractWith() error = %v, want ErrUnsupportedFormat", err)
	}
}

func writeMedia(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	audiotest.PCM(44100, 1, 16, 88200).WriteFile(t, dir, "c.wav")
	audiotest.PCM(22050, 2, 16, 22050).WriteFile(t, dir, "a.WAV")
	audiotest.PCM(48000, 1, 24, 4800).WriteFile(t, dir, "b.wav")
	audiotest.WriteFile(t, dir, "notes.txt", []byte("field notes"))
	if err := os.Mkdir(filepath.Join(dir, "sub.wav"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestListDir(t *testing.T) {
	t.Parallel()

	dir := writeMedia(t)
	reg, _ := NewRegistry()

	got, err := ListDir(dir, reg)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.WAV"),
		filepath.Join(dir, "b.wav"),
		filepath.Join(dir, "c.wav"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListDir() = %v, want %v", got, want)
	}

	if _, err := ListDir(filepath.Join(dir, "missing"), reg); !errors.Is(err, audio.ErrNotFound) {
		t.Errorf("ListDir(missing) error = %v, want ErrNotFound", err)
	}
}

func TestExtractDir(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{0, 1, 4} {
		dir := writeMedia(t)

		res, err := ExtractDir(context.Background(), dir, Options{Workers: workers})
		if err != nil {
			t.Fatalf("workers=%d: ExtractDir() error = %v", workers, err)
		}

		want := []audio.TechnicalMetadata{
			{FileName: "a.WAV", DurationSeconds: 1.0, SamplingRateHz: 22050, BitDepth: 16, Channels: 2},
			{FileName: "b.wav", DurationSeconds: 0.1, SamplingRateHz: 48000, BitDepth: 24, Channels: 1},
			{FileName: "c.wav", DurationSeconds: 2.0, SamplingRateHz: 44100, BitDepth: 16, Channels: 1},
		}
		if !reflect.DeepEqual(res.Records, want) {
			t.Errorf("workers=%d: Records = %+v, want %+v", workers, res.Records, want)
		}
		if len(res.Skipped) != 0 {
			t.Errorf("workers=%d: Skipped = %+v, want none", workers, res.Skipped)
		}
	}
}

func TestExtractFiles_SkipInvalid(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 3} {
		dir := t.TempDir()
		paths := []string{
			audiotest.PCM(8000, 1, 16, 8000).WriteFile(t, dir, "good1.wav"),
			audiotest.WriteFile(t, dir, "broken.wav", []byte("junk")),
			filepath.Join(dir, "missing.wav"),
			audiotest.PCM(8000, 1, 16, 4000).WriteFile(t, dir, "good2.wav"),
		}

		res, err := ExtractFiles(context.Background(), paths, Options{Workers: workers, SkipInvalid: true})
		if err != nil {
			t.Fatalf("workers=%d: ExtractFiles() error = %v", workers, err)
		}

		if len(res.Records) != 2 || res.Records[0].FileName != "good1.wav" || res.Records[1].FileName != "good2.wav" {
			t.Errorf("workers=%d: Records = %+v", workers, res.Records)
		}
		if len(res.Skipped) != 2 {
			t.Fatalf("workers=%d: Skipped = %+v, want 2 entries", workers, res.Skipped)
		}
		if !errors.Is(res.Skipped[0].Err, audio.ErrFormat) {
			t.Errorf("workers=%d: Skipped[0] = %v, want format error", workers, res.Skipped[0].Err)
		}
		if !errors.Is(res.Skipped[1].Err, audio.ErrNotFound) {
			t.Errorf("workers=%d: Skipped[1] = %v, want not-found error", workers, res.Skipped[1].Err)
		}
	}
}

func TestExtractFiles_AbortOnError(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 2} {
		dir := t.TempDir()
		paths := []string{
			audiotest.PCM(8000, 1, 16, 8000).WriteFile(t, dir, "good.wav"),
			filepath.Join(dir, "missing.wav"),
		}

		res, err := ExtractFiles(context.Background(), paths, Options{Workers: workers})
		if !errors.Is(err, audio.ErrNotFound) {
			t.Errorf("workers=%d: ExtractFiles() error = %v, want ErrNotFound", workers, err)
		}
		if len(res.Records) != 0 {
			t.Errorf("workers=%d: got %d records on abort, want none", workers, len(res.Records))
		}
	}
}

func TestExtractFiles_Canceled(t *testing.T) {
	t.Parallel()

	path := audiotest.PCM(8000, 1, 16, 8).WriteFile(t, t.TempDir(), "a.wav")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ExtractFiles(ctx, []string{path}, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("ExtractFiles() error = %v, want context.Canceled", err)
	}
}
