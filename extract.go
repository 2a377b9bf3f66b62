// SPDX-License-Identifier: EPL-2.0

package audiodwc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audiodwc/audio"
	"github.com/ik5/audiodwc/formats/aiff"
	"github.com/ik5/audiodwc/formats/mp3"
	"github.com/ik5/audiodwc/formats/vorbis"
	"github.com/ik5/audiodwc/formats/wav"
	"golang.org/x/sync/errgroup"
)

// DefaultFormats are the formats a Registry gets when none are requested.
var DefaultFormats = []string{"wav"}

// formatExtensions maps a format name to the file extensions it owns.
var formatExtensions = map[string][]string{
	"wav":    {"wav", "wave"},
	"aiff":   {"aif", "aiff"},
	"mp3":    {"mp3"},
	"vorbis": {"ogg", "oga"},
}

func proberFor(format string) (audio.Prober, bool) {
	switch format {
	case "wav":
		return wav.Prober{}, true
	case "aiff":
		return aiff.Prober{}, true
	case "mp3":
		return mp3.Prober{}, true
	case "vorbis", "ogg":
		return vorbis.Prober{}, true
	}
	return nil, false
}

// NewRegistry returns a registry holding the probers for formats
// ("wav", "aiff", "mp3", "vorbis"), or DefaultFormats when none are given.
func NewRegistry(formats ...string) (*audio.Registry, error) {
	if len(formats) == 0 {
		formats = DefaultFormats
	}

	reg := audio.NewRegistry()
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "ogg" {
			f = "vorbis"
		}
		p, ok := proberFor(f)
		if !ok {
			return nil, fmt.Errorf("%w: %q", audio.ErrUnsupportedFormat, f)
		}
		for _, ext := range formatExtensions[f] {
			reg.Register(ext, p)
		}
	}

	return reg, nil
}

// Extract reads the WAV header at path and returns its technical metadata,
// using the file's base name as FileName.
//
// Errors are an *audio.NotFoundError when path is missing or unreadable and
// an *audio.FormatError when the container is malformed. No partial record is
// returned on error.
func Extract(path string) (audio.TechnicalMetadata, error) {
	return extract(path, wav.Prober{})
}

// ExtractWith picks the prober for path's extension from reg.
func ExtractWith(reg *audio.Registry, path string) (audio.TechnicalMetadata, error) {
	p, ok := reg.Get(filepath.Ext(path))
	if !ok {
		return audio.TechnicalMetadata{}, fmt.Errorf("%s: %w", path, audio.ErrUnsupportedFormat)
	}
	return extract(path, p)
}

func extract(path string, p audio.Prober) (audio.TechnicalMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.TechnicalMetadata{}, &audio.NotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return audio.TechnicalMetadata{}, &audio.NotFoundError{Path: path, Err: err}
	}
	if !st.Mode().IsRegular() {
		return audio.TechnicalMetadata{}, &audio.NotFoundError{Path: path, Err: errNotRegular}
	}

	info, err := p.Probe(f)
	if err != nil {
		if errors.Is(err, audio.ErrFormat) {
			return audio.TechnicalMetadata{}, audio.WithPath(err, path)
		}
		// Read failures are not told apart from absence.
		return audio.TechnicalMetadata{}, &audio.NotFoundError{Path: path, Err: err}
	}

	return audio.NewTechnicalMetadata(filepath.Base(path), info)
}

var errNotRegular = errors.New("not a regular file")

// Options control batch extraction.
type Options struct {
	// Registry selects a prober per extension. Nil means NewRegistry().
	Registry *audio.Registry
	// Workers > 1 probes files in parallel. Output order is unchanged.
	Workers int
	// SkipInvalid records failing files in Result.Skipped instead of
	// aborting the batch.
	SkipInvalid bool
}

// Skipped is a file left out of a batch and the reason.
type Skipped struct {
	Path string
	Err  error
}

// Result of a batch: records in input order, plus skipped files.
type Result struct {
	Records []audio.TechnicalMetadata
	Skipped []Skipped
}

func (o Options) registry() (*audio.Registry, error) {
	if o.Registry != nil {
		return o.Registry, nil
	}
	return NewRegistry()
}

// ListDir returns the files in dir whose extension is registered, sorted by
// name. Subdirectories are not descended into.
func ListDir(dir string, reg *audio.Registry) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &audio.NotFoundError{Path: dir, Err: err}
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := reg.Get(filepath.Ext(e.Name())); !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	return paths, nil
}

// ExtractDir lists dir with ListDir and extracts every file found.
func ExtractDir(ctx context.Context, dir string, opts Options) (Result, error) {
	reg, err := opts.registry()
	if err != nil {
		return Result{}, err
	}

	paths, err := ListDir(dir, reg)
	if err != nil {
		return Result{}, err
	}

	opts.Registry = reg
	return ExtractFiles(ctx, paths, opts)
}

// ExtractFiles extracts paths in order. With opts.Workers > 1 files are
// probed concurrently, each into its own slot, so the output order still
// equals the input order.
func ExtractFiles(ctx context.Context, paths []string, opts Options) (Result, error) {
	reg, err := opts.registry()
	if err != nil {
		return Result{}, err
	}

	type slot struct {
		meta audio.TechnicalMetadata
		err  error
	}
	slots := make([]slot, len(paths))

	if opts.Workers <= 1 {
		for i, path := range paths {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("%w", err)
			}
			slots[i].meta, slots[i].err = ExtractWith(reg, path)
			if slots[i].err != nil && !opts.SkipInvalid {
				return Result{}, slots[i].err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)

		for i, path := range paths {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					slots[i].err = err
					return nil
				}
				slots[i].meta, slots[i].err = ExtractWith(reg, path)
				if slots[i].err != nil && !opts.SkipInvalid {
					return slots[i].err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil && !opts.SkipInvalid {
			for _, s := range slots {
				if s.err != nil && !errors.Is(s.err, context.Canceled) {
					return Result{}, s.err
				}
			}
			return Result{}, err
		}
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("%w", err)
		}
	}

	res := Result{Records: make([]audio.TechnicalMetadata, 0, len(paths))}
	for i, s := range slots {
		if s.err != nil {
			res.Skipped = append(res.Skipped, Skipped{Path: paths[i], Err: s.err})
			continue
		}
		res.Records = append(res.Records, s.meta)
	}

	return res, nil
}
