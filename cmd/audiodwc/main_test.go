// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run initialises the global logger, so these tests are sequential.

func TestRun_Version(t *testing.T) {
	var out, errOut bytes.Buffer

	code := run(context.Background(), []string{"-version"}, &out, &errOut)

	assert.Equal(t, 0, code)
	assert.Equal(t, "audiodwc dev\n", out.String())
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"publish"}, 2},
		{"unknown flag", []string{"-nope", "run"}, 2},
		{"help", []string{"-h"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			var out, errOut bytes.Buffer

			code := run(context.Background(), tt.args, &out, &errOut)

			assert.Equal(t, tt.code, code)
			assert.Contains(t, errOut.String(), "Usage: audiodwc")
		})
	}
}

func TestRun_DemoThenRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	common := []string{"-media", "recordings", "-o", "published", "-log-level", "warn"}

	var out, errOut bytes.Buffer
	require.Equal(t, 0, run(context.Background(), append(common, "demo"), &out, &errOut), errOut.String())
	require.Equal(t, 0, run(context.Background(), append(common, "-workers", "2", "run"), &out, &errOut), errOut.String())

	for _, name := range []string{"metadata_extracted.csv", "extra_metadata.csv", "dwc_event.csv", "dwc_occurrence.csv", "eml.xml"} {
		assert.FileExists(t, filepath.Join(dir, "published", name))
	}
	assert.Contains(t, out.String(), "Generated files:")

	occ, err := os.ReadFile(filepath.Join(dir, "published", "dwc_occurrence.csv"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(occ), "\n"))
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("audiodwc.yaml", []byte("media_dir: missing-media\nlog_level: error\n"), 0o644))

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"-config", "audiodwc.yaml", "extract"}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "missing-media")
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"-formats", "flac", "run"}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "invalid configuration")
}
