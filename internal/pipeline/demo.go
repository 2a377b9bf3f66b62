// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ik5/audiodwc/formats/wav"
	"github.com/ik5/audiodwc/internal/fieldnotes"
	"github.com/ik5/audiodwc/pkg/logger"
)

// DemoRecording is a synthetic recording written by Demo, with the field
// notes that go with it.
type DemoRecording struct {
	FileName   string
	SampleRate int
	BitDepth   int
	Channels   int
	Frequency  float64
	Duration   time.Duration
	Note       fieldnotes.Note
}

// DemoRecordings are the recordings Demo writes. The last one has no species
// so the published tables show the placeholder name.
var DemoRecordings = []DemoRecording{
	{
		FileName: "bird_song_01.wav", SampleRate: 44100, BitDepth: 16, Channels: 1,
		Frequency: 2000, Duration: 2 * time.Second,
		Note: fieldnotes.Note{
			ScientificName: "Turdus falcklandii", EventDate: "2024-11-02", EventTime: "06:15",
			DecimalLatitude: "-41.1335", DecimalLongitude: "-71.3103", Locality: "Nahuel Huapi National Park",
		},
	},
	{
		FileName: "frog_call_02.wav", SampleRate: 48000, BitDepth: 24, Channels: 2,
		Frequency: 800, Duration: 1500 * time.Millisecond,
		Note: fieldnotes.Note{
			ScientificName: "Batrachyla taeniata", EventDate: "2024-11-02", EventTime: "21:40:00",
			DecimalLatitude: "-41.1402", DecimalLongitude: "-71.3208", Locality: "Nahuel Huapi National Park",
		},
	},
	{
		FileName: "night_03.wav", SampleRate: 22050, BitDepth: 16, Channels: 1,
		Frequency: 4000, Duration: time.Second,
		Note: fieldnotes.Note{
			EventDate: "2024-11-03", EventTime: "02:05",
			DecimalLatitude: "-41.1335", DecimalLongitude: "-71.3103", Locality: "Nahuel Huapi National Park",
		},
	},
}

// Demo writes DemoRecordings into the media directory as sine tones, and a
// matching field notes file unless one already exists.
func (p *Pipeline) Demo(ctx context.Context) (Summary, error) {
	if err := os.MkdirAll(p.cfg.MediaDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating media directory: %w", err)
	}

	var sum Summary
	notes := make([]fieldnotes.Note, 0, len(DemoRecordings))

	for _, rec := range DemoRecordings {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("%w", err)
		}

		path := filepath.Join(p.cfg.MediaDir, rec.FileName)
		if err := writeRecording(path, rec); err != nil {
			return sum, err
		}
		logger.Info("Wrote demo recording %s", path)
		sum.Outputs = append(sum.Outputs, path)

		n := rec.Note
		n.FileName = rec.FileName
		notes = append(notes, n)
	}

	path := p.notesPath()
	switch _, err := os.Stat(path); {
	case err == nil:
		logger.Info("Keeping existing field notes %s", path)
	case errors.Is(err, fs.ErrNotExist):
		if err := writeFile(path, func(w io.Writer) error { return fieldnotes.Write(w, notes) }); err != nil {
			return sum, err
		}
		logger.Info("Wrote field notes template %s", path)
		sum.Outputs = append(sum.Outputs, path)
	default:
		return sum, fmt.Errorf("checking field notes: %w", err)
	}

	return sum, nil
}

func writeRecording(path string, rec DemoRecording) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	samples := wav.Tone(rec.SampleRate, rec.BitDepth, rec.Channels, rec.Frequency, rec.Duration)
	if err := wav.Write(f, rec.SampleRate, rec.BitDepth, rec.Channels, samples); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
