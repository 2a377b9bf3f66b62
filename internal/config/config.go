// SPDX-License-Identifier: EPL-2.0

// Package config handles audiodwc configuration.
//
// Values are layered, later layers winning: built-in defaults, an optional
// YAML file, a .env file, then AUDIODWC_* environment variables. The command
// applies its flags on top of the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "AUDIODWC_"

// Config holds the pipeline settings.
type Config struct {
	// MediaDir holds the recordings.
	MediaDir string `yaml:"media_dir" validate:"required"`
	// OutputDir receives metadata_extracted.csv, the Darwin Core tables and eml.xml.
	OutputDir string `yaml:"output_dir" validate:"required"`
	// ExtraMetadata is the field notes CSV. Relative paths resolve against OutputDir.
	ExtraMetadata string `yaml:"extra_metadata" validate:"required"`
	// Formats enables container probers by name.
	Formats []string `yaml:"formats" validate:"min=1,dive,oneof=wav aiff mp3 vorbis ogg"`
	// Workers > 1 probes recordings in parallel.
	Workers int `yaml:"workers" validate:"min=0,max=256"`
	// SkipInvalid logs and skips unreadable recordings instead of aborting.
	SkipInvalid bool `yaml:"skip_invalid"`
	// StrictNotes fails generate when field notes do not validate.
	StrictNotes bool `yaml:"strict_notes"`

	MediaBaseURL          string `yaml:"media_base_url" validate:"required,url"`
	DefaultScientificName string `yaml:"default_scientific_name" validate:"required"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn warning error"`

	Dataset DatasetConfig `yaml:"dataset"`
}

// DatasetConfig describes the EML dataset.
type DatasetConfig struct {
	// PackageID empty derives one from the title.
	PackageID      string `yaml:"package_id"`
	Title          string `yaml:"title" validate:"required"`
	CreatorSurname string `yaml:"creator" validate:"required"`
	Organization   string `yaml:"organization"`
	Abstract       string `yaml:"abstract"`
	Rights         string `yaml:"rights"`
}

// Default returns the settings of the demonstration dataset.
func Default() *Config {
	return &Config{
		MediaDir:              "media",
		OutputDir:             ".",
		ExtraMetadata:         "extra_metadata.csv",
		Formats:               []string{"wav"},
		Workers:               1,
		MediaBaseURL:          "https://demo.org/media/",
		DefaultScientificName: "Unknown species (demo)",
		LogLevel:              "info",
		Dataset: DatasetConfig{
			Title:          "Demo dataset: Acoustic recordings and metadata",
			CreatorSurname: "Demo",
			Organization:   "INIBIOMA",
			Abstract: "This is a demonstration dataset generated for the GBIF Ebbe Nielsen Challenge. " +
				"It contains example acoustic recordings with basic metadata transformed into Darwin Core " +
				"and EML formats. All data are fictional for demonstration purposes only.",
			Rights: "This dataset is for demonstration only and not intended for actual publication.",
		},
	}
}

// Options select the files Load reads.
type Options struct {
	// File is a YAML config file; empty skips it.
	File string
	// DotEnv lists .env files. Nil means ".env" if it exists.
	DotEnv []string
}

// Load builds the configuration and validates it.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.File != "" {
		if err := cfg.loadFile(opts.File); err != nil {
			return nil, err
		}
	}

	dotenv, err := readDotEnv(opts.DotEnv)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(envLookup(dotenv)); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// readDotEnv reads .env files without touching the process environment.
func readDotEnv(files []string) (map[string]string, error) {
	explicit := files != nil
	if !explicit {
		files = []string{".env"}
	}

	merged := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		// Earlier files win, as with godotenv.Load.
		for k, v := range vals {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}

	return merged, nil
}

// envLookup prefers the process environment over .env values.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	get("MEDIA_DIR", &c.MediaDir)
	get("OUTPUT_DIR", &c.OutputDir)
	get("EXTRA_METADATA", &c.ExtraMetadata)
	get("MEDIA_BASE_URL", &c.MediaBaseURL)
	get("DEFAULT_SCIENTIFIC_NAME", &c.DefaultScientificName)
	get("LOG_LEVEL", &c.LogLevel)
	get("DATASET_PACKAGE_ID", &c.Dataset.PackageID)
	get("DATASET_TITLE", &c.Dataset.Title)
	get("DATASET_CREATOR", &c.Dataset.CreatorSurname)
	get("DATASET_ORGANIZATION", &c.Dataset.Organization)
	get("DATASET_ABSTRACT", &c.Dataset.Abstract)
	get("DATASET_RIGHTS", &c.Dataset.Rights)

	if v, ok := lookup(EnvPrefix + "FORMATS"); ok && v != "" {
		c.Formats = SplitList(v)
	}

	var errs []error
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sWORKERS: %w", EnvPrefix, err))
		}
		c.Workers = n
	}
	for _, flag := range []struct {
		name string
		dst  *bool
	}{
		{"SKIP_INVALID", &c.SkipInvalid},
		{"STRICT_NOTES", &c.StrictNotes},
	} {
		if v, ok := lookup(EnvPrefix + flag.name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, flag.name, err))
			}
			*flag.dst = b
		}
	}

	return errors.Join(errs...)
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration, reporting every invalid field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")
