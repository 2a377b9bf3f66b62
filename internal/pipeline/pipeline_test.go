// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ik5/audiodwc/audio"
	"github.com/ik5/audiodwc/internal/audiotest"
	"github.com/ik5/audiodwc/internal/config"
	"github.com/ik5/audiodwc/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize("error", io.Discard, io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func clock() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

func newPipeline(t *testing.T, modify ...func(*config.Config)) (*Pipeline, *config.Config) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.MediaDir = filepath.Join(dir, "media")
	cfg.OutputDir = filepath.Join(dir, "out")
	for _, m := range modify {
		m(cfg)
	}

	p, err := New(cfg, WithClock(clock))
	require.NoError(t, err)
	return p, cfg
}

func readOutput(t *testing.T, cfg *config.Config, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
	require.NoError(t, err)
	return string(data)
}

func TestDemoThenRun(t *testing.T) {
	t.Parallel()

	p, cfg := newPipeline(t)
	ctx := context.Background()

	demo, err := p.Demo(ctx)
	require.NoError(t, err)
	assert.Len(t, demo.Outputs, len(DemoRecordings)+1)

	sum, err := p.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Found)
	assert.Equal(t, 3, sum.Extracted)
	assert.Empty(t, sum.Skipped)
	assert.Equal(t, 0, sum.WithoutNotes)
	// night_03.wav has a notes row but no species.
	assert.Equal(t, 1, sum.WithoutSpecies)
	assert.Equal(t, 3, sum.Events)
	assert.Equal(t, 3, sum.Occurrences)
	assert.Len(t, sum.Outputs, 4)

	assert.Equal(t,
		"file_name,duration_seconds,sampling_rate_hz,bit_depth,channels\n"+
			"bird_song_01.wav,2.0,44100,16,1\n"+
			"frog_call_02.wav,1.5,48000,24,2\n"+
			"night_03.wav,1.0,22050,16,1\n",
		readOutput(t, cfg, "metadata_extracted.csv"))

	assert.Equal(t,
		"eventID,eventDate,eventTime,decimalLatitude,decimalLongitude,locality\n"+
			"event_bird_song_01,2024-11-02,06:15,-41.1335,-71.3103,Nahuel Huapi National Park\n"+
			"event_frog_call_02,2024-11-02,21:40:00,-41.1402,-71.3208,Nahuel Huapi National Park\n"+
			"event_night_03,2024-11-03,02:05,-41.1335,-71.3103,Nahuel Huapi National Park\n",
		readOutput(t, cfg, "dwc_event.csv"))

	assert.Equal(t,
		"occurrenceID,eventID,scientificName,basisOfRecord,associatedMedia,duration_sec\n"+
			"occ_event_bird_song_01_bird_song_01,event_bird_song_01,Turdus falcklandii,MachineObservation,https://demo.org/media/bird_song_01.wav,2.0\n"+
			"occ_event_frog_call_02_frog_call_02,event_frog_call_02,Batrachyla taeniata,MachineObservation,https://demo.org/media/frog_call_02.wav,1.5\n"+
			"occ_event_night_03_night_03,event_night_03,Unknown species (demo),MachineObservation,https://demo.org/media/night_03.wav,1.0\n",
		readOutput(t, cfg, "dwc_occurrence.csv"))

	emlOut := readOutput(t, cfg, "eml.xml")
	assert.Contains(t, emlOut, "<pubDate>2026-10-19</pubDate>")
	assert.Contains(t, emlOut, "<title>Demo dataset: Acoustic recordings and metadata</title>")
	assert.Contains(t, emlOut, `system="GBIF"`)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	seq, seqCfg := newPipeline(t)
	par, parCfg := newPipeline(t, func(c *config.Config) { c.Workers = 4 })

	for _, p := range []*Pipeline{seq, par} {
		_, err := p.Demo(context.Background())
		require.NoError(t, err)
		_, err = p.Run(context.Background())
		require.NoError(t, err)
	}

	for _, name := range []string{"metadata_extracted.csv", "dwc_event.csv", "dwc_occurrence.csv"} {
		assert.Equal(t, readOutput(t, seqCfg, name), readOutput(t, parCfg, name), name)
	}
}

func TestExtract_InvalidRecording(t *testing.T) {
	t.Parallel()

	t.Run("abort", func(t *testing.T) {
		t.Parallel()

		p, cfg := newPipeline(t)
		require.NoError(t, os.MkdirAll(cfg.MediaDir, 0o755))
		audiotest.PCM(8000, 1, 16, 8000).WriteFile(t, cfg.MediaDir, "good.wav")
		audiotest.WriteFile(t, cfg.MediaDir, "broken.wav", []byte("RIFF"))

		_, err := p.Extract(context.Background())
		assert.ErrorIs(t, err, audio.ErrFormat)
		assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "metadata_extracted.csv"))
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		p, cfg := newPipeline(t, func(c *config.Config) { c.SkipInvalid = true })
		require.NoError(t, os.MkdirAll(cfg.MediaDir, 0o755))
		audiotest.PCM(8000, 1, 16, 8000).WriteFile(t, cfg.MediaDir, "good.wav")
		audiotest.WriteFile(t, cfg.MediaDir, "broken.wav", []byte("RIFF"))

		sum, err := p.Extract(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sum.Found)
		assert.Equal(t, 1, sum.Extracted)
		require.Len(t, sum.Skipped, 1)
		assert.Equal(t, filepath.Join(cfg.MediaDir, "broken.wav"), sum.Skipped[0].Path)
		assert.Equal(t,
			"file_name,duration_seconds,sampling_rate_hz,bit_depth,channels\ngood.wav,1.0,8000,16,1\n",
			readOutput(t, cfg, "metadata_extracted.csv"))
	})
}

func TestExtract_MissingMediaDir(t *testing.T) {
	t.Parallel()

	p, _ := newPipeline(t)

	_, err := p.Extract(context.Background())
	assert.ErrorIs(t, err, audio.ErrNotFound)
}

func TestGenerate_WithoutFieldNotes(t *testing.T) {
	t.Parallel()

	p, cfg := newPipeline(t, func(c *config.Config) { c.DefaultScientificName = "Aves" })
	require.NoError(t, os.MkdirAll(cfg.MediaDir, 0o755))
	audiotest.PCM(8000, 1, 16, 4000).WriteFile(t, cfg.MediaDir, "a.wav")

	sum, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.WithoutNotes)
	assert.Equal(t, 1, sum.WithoutSpecies)

	assert.Equal(t,
		"eventID,eventDate,eventTime,decimalLatitude,decimalLongitude,locality\nevent_a,,,,,\n",
		readOutput(t, cfg, "dwc_event.csv"))
	assert.Contains(t, readOutput(t, cfg, "dwc_occurrence.csv"), "occ_event_a_a,event_a,Aves,MachineObservation,https://demo.org/media/a.wav,0.5\n")
}

func TestGenerate_FieldNotes(t *testing.T) {
	t.Parallel()

	const notes = "file_name,scientificName,eventDate,decimalLatitude\n" +
		"a.wav,Strix rufipes,2025-01-09,-41\n" +
		"a.wav,Bubo magellanicus,2025-01-10,-42\n" +
		"b.wav,,not-a-date,-41\n"

	write := func(t *testing.T, cfg *config.Config) {
		t.Helper()
		require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
		audiotest.WriteFile(t, cfg.OutputDir, "extra_metadata.csv", []byte(notes))
		audiotest.WriteFile(t, cfg.OutputDir, "metadata_extracted.csv", []byte(
			"file_name,duration_seconds,sampling_rate_hz,bit_depth,channels\n"+
				"b.wav,1.0,8000,16,1\n"+
				"a.wav,2.5,8000,16,1\n"))
	}

	t.Run("lenient", func(t *testing.T) {
		t.Parallel()

		p, cfg := newPipeline(t)
		write(t, cfg)

		sum, err := p.Generate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sum.Occurrences)
		assert.Equal(t, 0, sum.WithoutNotes)
		assert.Equal(t, 1, sum.WithoutSpecies)

		occ := readOutput(t, cfg, "dwc_occurrence.csv")
		lines := strings.Split(strings.TrimSpace(occ), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[1], "occ_event_b_b,event_b,Unknown species (demo),"), lines[1])
		assert.True(t, strings.HasPrefix(lines[2], "occ_event_a_a,event_a,Strix rufipes,"), lines[2])
		assert.True(t, strings.HasSuffix(lines[2], ",2.5"), lines[2])

		assert.Contains(t, readOutput(t, cfg, "dwc_event.csv"), "event_a,2025-01-09,,-41,,\n")
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()

		p, cfg := newPipeline(t, func(c *config.Config) { c.StrictNotes = true })
		write(t, cfg)

		_, err := p.Generate(context.Background())
		require.ErrorIs(t, err, ErrInvalidNotes)
		assert.Contains(t, err.Error(), "line 4")
		assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "dwc_event.csv"))
	})
}

func TestGenerate_NeedsCatalog(t *testing.T) {
	t.Parallel()

	p, _ := newPipeline(t)

	_, err := p.Generate(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate_Canceled(t *testing.T) {
	t.Parallel()

	p, _ := newPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemo_KeepsExistingFieldNotes(t *testing.T) {
	t.Parallel()

	p, cfg := newPipeline(t)
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
	path := audiotest.WriteFile(t, cfg.OutputDir, "extra_metadata.csv", []byte("file_name\nmine.wav\n"))

	sum, err := p.Demo(context.Background())
	require.NoError(t, err)
	assert.Len(t, sum.Outputs, len(DemoRecordings))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file_name\nmine.wav\n", string(data))
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Formats = []string{"flac"}
	_, err = New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
