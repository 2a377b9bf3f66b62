// SPDX-License-Identifier: EPL-2.0

// Command audiodwc publishes bioacoustic recordings as Darwin Core.
//
// Usage:
//
//	audiodwc [flags] <extract|generate|run|demo>
//
// extract writes metadata_extracted.csv from the recordings in the media
// directory; generate joins it with extra_metadata.csv and writes
// dwc_event.csv, dwc_occurrence.csv and eml.xml; run does both; demo writes
// synthetic recordings and a field notes template to try the others on.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/audiodwc/internal/config"
	"github.com/ik5/audiodwc/internal/pipeline"
	"github.com/ik5/audiodwc/pkg/logger"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	configFile  string
	dotEnv      string
	mediaDir    string
	outputDir   string
	notes       string
	formats     string
	workers     int
	skipInvalid bool
	strictNotes bool
	baseURL     string
	logLevel    string
	version     bool
}

func newFlagSet(stderr io.Writer) (*flag.FlagSet, *flags) {
	f := &flags{}
	fs := flag.NewFlagSet("audiodwc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&f.dotEnv, "env", "", "Read environment from this file instead of ./.env")
	fs.StringVar(&f.mediaDir, "media", "", "Directory holding the recordings")
	fs.StringVar(&f.outputDir, "o", "", "Output directory")
	fs.StringVar(&f.notes, "notes", "", "Field notes CSV (relative to the output directory)")
	fs.StringVar(&f.formats, "formats", "", "Comma separated containers to read: wav, aiff, mp3, vorbis")
	fs.IntVar(&f.workers, "workers", 0, "Recordings probed in parallel")
	fs.BoolVar(&f.skipInvalid, "skip-invalid", false, "Skip unreadable recordings instead of failing")
	fs.BoolVar(&f.strictNotes, "strict-notes", false, "Fail when field notes do not validate")
	fs.StringVar(&f.baseURL, "base-url", "", "URL prefix for associatedMedia")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.BoolVar(&f.version, "version", false, "Display version information")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: audiodwc [flags] <extract|generate|run|demo>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	return fs, f
}

// apply copies the flags given on the command line over cfg.
func (f *flags) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "media":
			cfg.MediaDir = f.mediaDir
		case "o":
			cfg.OutputDir = f.outputDir
		case "notes":
			cfg.ExtraMetadata = f.notes
		case "formats":
			cfg.Formats = config.SplitList(f.formats)
		case "workers":
			cfg.Workers = f.workers
		case "skip-invalid":
			cfg.SkipInvalid = f.skipInvalid
		case "strict-notes":
			cfg.StrictNotes = f.strictNotes
		case "base-url":
			cfg.MediaBaseURL = f.baseURL
		case "log-level":
			cfg.LogLevel = f.logLevel
		}
	})
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, f := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if f.version {
		fmt.Fprintf(stdout, "audiodwc %s\n", version)
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	step := fs.Arg(0)

	opts := config.Options{File: f.configFile}
	if f.dotEnv != "" {
		opts.DotEnv = []string{f.dotEnv}
	}
	cfg, err := config.Load(opts)
	if err != nil {
		fmt.Fprintf(stderr, "audiodwc: %v\n", err)
		return 1
	}
	f.apply(fs, cfg)

	if err := logger.Initialize(cfg.LogLevel, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "audiodwc: %v\n", err)
		return 1
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}

	steps := map[string]func(context.Context) (pipeline.Summary, error){
		"extract":  p.Extract,
		"generate": p.Generate,
		"run":      p.Run,
		"demo":     p.Demo,
	}
	fn, ok := steps[step]
	if !ok {
		fmt.Fprintf(stderr, "audiodwc: unknown command %q\n", step)
		fs.Usage()
		return 2
	}

	sum, err := fn(ctx)
	if err != nil {
		logger.Error("%s failed: %v", step, err)
		return 1
	}

	if len(sum.Outputs) > 0 {
		fmt.Fprintln(stdout, "Generated files:")
		for _, o := range sum.Outputs {
			fmt.Fprintf(stdout, "- %s\n", o)
		}
	}
	return 0
}
