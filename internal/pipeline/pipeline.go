// SPDX-License-Identifier: EPL-2.0

// Package pipeline runs the publishing workflow: extract technical metadata
// from recordings, then join it with field notes into Darwin Core tables and
// an EML descriptor.
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

	"github.com/ik5/audiodwc"
	"github.com/ik5/audiodwc/audio"
	"github.com/ik5/audiodwc/internal/catalog"
	"github.com/ik5/audiodwc/internal/config"
	"github.com/ik5/audiodwc/internal/darwincore"
	"github.com/ik5/audiodwc/internal/eml"
	"github.com/ik5/audiodwc/internal/fieldnotes"
	"github.com/ik5/audiodwc/pkg/logger"
)

// ErrInvalidNotes is returned by Generate in strict mode when field notes fail
// validation.
var ErrInvalidNotes = errors.New("field notes failed validation")

// Summary reports what a step did.
type Summary struct {
	// Found is the number of recordings listed in the media directory.
	Found     int
	Extracted int
	Skipped   []audiodwc.Skipped

	// WithoutNotes counts recordings that had no field notes row.
	WithoutNotes   int
	// WithoutSpecies counts occurrences published with the default name.
	WithoutSpecies int
	Events         int
	Occurrences    int

	// Outputs are the files written, in order.
	Outputs []string
}

func (s *Summary) add(o Summary) {
	s.Found += o.Found
	s.Extracted += o.Extracted
	s.Skipped = append(s.Skipped, o.Skipped...)
	s.WithoutNotes += o.WithoutNotes
	s.WithoutSpecies += o.WithoutSpecies
	s.Events += o.Events
	s.Occurrences += o.Occurrences
	s.Outputs = append(s.Outputs, o.Outputs...)
}

// Pipeline holds a validated configuration and the prober registry built
// from it.
type Pipeline struct {
	cfg *config.Config
	reg *audio.Registry
	now func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used for the EML publication date.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New validates cfg and prepares a pipeline.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("nil configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg, err := audiodwc.NewRegistry(cfg.Formats...)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, reg: reg, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *Pipeline) output(name string) string { return filepath.Join(p.cfg.OutputDir, name) }

func (p *Pipeline) notesPath() string {
	if filepath.IsAbs(p.cfg.ExtraMetadata) {
		return p.cfg.ExtraMetadata
	}
	return p.output(p.cfg.ExtraMetadata)
}

// Extract probes every recording in the media directory and writes
// metadata_extracted.csv.
func (p *Pipeline) Extract(ctx context.Context) (Summary, error) {
	logger.Info("Extracting metadata from %s (formats: %v)", p.cfg.MediaDir, p.reg.Extensions())

	paths, err := audiodwc.ListDir(p.cfg.MediaDir, p.reg)
	if err != nil {
		return Summary{}, fmt.Errorf("listing media: %w", err)
	}

	res, err := audiodwc.ExtractFiles(ctx, paths, audiodwc.Options{
		Registry:    p.reg,
		Workers:     p.cfg.Workers,
		SkipInvalid: p.cfg.SkipInvalid,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("extracting metadata: %w", err)
	}

	for _, s := range res.Skipped {
		logger.Warn("Skipping %s: %v", s.Path, s.Err)
	}
	for _, rec := range res.Records {
		logger.Debug("%s: %.3fs %d Hz %d-bit %d ch", rec.FileName, rec.DurationSeconds, rec.SamplingRateHz, rec.BitDepth, rec.Channels)
	}

	out := p.output(catalog.FileName)
	if err := writeFile(out, func(w io.Writer) error { return catalog.Write(w, res.Records) }); err != nil {
		return Summary{}, err
	}
	logger.Info("Metadata extracted and saved to %s (%d recordings)", out, len(res.Records))

	return Summary{
		Found:     len(paths),
		Extracted: len(res.Records),
		Skipped:   res.Skipped,
		Outputs:   []string{out},
	}, nil
}

// Generate joins metadata_extracted.csv with the field notes and writes the
// Darwin Core tables and eml.xml.
func (p *Pipeline) Generate(ctx context.Context) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, fmt.Errorf("%w", err)
	}

	tech, err := readFile(p.output(catalog.FileName), catalog.Read)
	if err != nil {
		return Summary{}, fmt.Errorf("reading technical metadata: %w", err)
	}

	notes, err := p.loadNotes()
	if err != nil {
		return Summary{}, err
	}

	byFile, dups := fieldnotes.Index(notes)
	for _, name := range dups {
		logger.Warn("Duplicate field notes for %s; keeping the first row", name)
	}

	records := darwincore.Merge(tech, byFile)

	var sum Summary
	for _, r := range records {
		switch {
		case !r.HasNote:
			sum.WithoutNotes++
			sum.WithoutSpecies++
			logger.Warn("No field notes for %s; using %q", r.Tech.FileName, p.cfg.DefaultScientificName)
		case r.Note.ScientificName == "":
			sum.WithoutSpecies++
			logger.Warn("No scientificName for %s; using %q", r.Tech.FileName, p.cfg.DefaultScientificName)
		}
	}

	events := darwincore.Events(records)
	occs := darwincore.Occurrences(records, darwincore.Options{
		MediaBaseURL:          p.cfg.MediaBaseURL,
		DefaultScientificName: p.cfg.DefaultScientificName,
	})

	doc := eml.New(eml.Dataset{
		PackageID:      p.cfg.Dataset.PackageID,
		Title:          p.cfg.Dataset.Title,
		CreatorSurname: p.cfg.Dataset.CreatorSurname,
		Organization:   p.cfg.Dataset.Organization,
		Abstract:       p.cfg.Dataset.Abstract,
		Rights:         p.cfg.Dataset.Rights,
	}, p.now)

	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{darwincore.EventFileName, func(w io.Writer) error { return darwincore.WriteEvents(w, events) }},
		{darwincore.OccurrenceFileName, func(w io.Writer) error { return darwincore.WriteOccurrences(w, occs) }},
		{eml.FileName, doc.Write},
	}
	for _, o := range outputs {
		path := p.output(o.name)
		if err := writeFile(path, o.write); err != nil {
			return Summary{}, err
		}
		sum.Outputs = append(sum.Outputs, path)
	}

	sum.Events = len(events)
	sum.Occurrences = len(occs)
	logger.Info("Darwin Core and EML files generated: %d events, %d occurrences", sum.Events, sum.Occurrences)

	return sum, nil
}

func (p *Pipeline) loadNotes() ([]fieldnotes.Note, error) {
	path := p.notesPath()

	notes, err := readFile(path, fieldnotes.Read)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("Field notes %s not found; publishing technical metadata only", path)
		return nil, nil
	case errors.Is(err, fieldnotes.ErrEmpty):
		logger.Warn("Field notes %s are empty", path)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading field notes: %w", err)
	}

	if err := fieldnotes.Validate(notes); err != nil {
		if p.cfg.StrictNotes {
			return nil, fmt.Errorf("%w: %w", ErrInvalidNotes, err)
		}
		logger.Warn("Field notes %s have problems:\n%v", path, err)
	}

	return notes, nil
}

// Run extracts, then generates.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	logger.Info("=== Workflow started ===")

	sum, err := p.Extract(ctx)
	if err != nil {
		return sum, err
	}

	gen, err := p.Generate(ctx)
	if err != nil {
		return sum, err
	}
	sum.add(gen)

	logger.Info("=== Workflow completed: %d recordings, %d skipped ===", sum.Extracted, len(sum.Skipped))
	return sum, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w", err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return v, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
