// SPDX-License-Identifier: EPL-2.0

// Package catalog reads and writes metadata_extracted.csv, the table of
// technical metadata produced by the extract step.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ik5/audiodwc/audio"
)

// FileName is the catalog's conventional name.
const FileName = "metadata_extracted.csv"

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidRow is returned for a row whose cells do not parse.
	ErrInvalidRow = errors.New("invalid row")
	// ErrEmpty is returned for input without a header row.
	ErrEmpty = errors.New("empty catalog")
)

// Write emits the header and one row per record, in the given order.
func Write(w io.Writer, records []audio.TechnicalMetadata) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(audio.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.Record()); err != nil {
			return fmt.Errorf("writing %s: %w", rec.FileName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read parses a catalog. Columns are matched by header name, so their order
// does not matter and extra columns are ignored.
func Read(r io.Reader) ([]audio.TechnicalMetadata, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []audio.TechnicalMetadata
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", line, ErrInvalidRow, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Spreadsheet exports often start with a UTF-8 BOM.
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	for _, c := range audio.Columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (audio.TechnicalMetadata, error) {
	cell := func(name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := audio.TechnicalMetadata{FileName: cell("file_name")}
	if rec.FileName == "" {
		return rec, errors.New("empty file_name")
	}

	var err error
	if rec.DurationSeconds, err = strconv.ParseFloat(cell("duration_seconds"), 64); err != nil {
		return rec, fmt.Errorf("duration_seconds: %w", err)
	}
	if rec.SamplingRateHz, err = strconv.Atoi(cell("sampling_rate_hz")); err != nil {
		return rec, fmt.Errorf("sampling_rate_hz: %w", err)
	}
	if rec.BitDepth, err = strconv.Atoi(cell("bit_depth")); err != nil {
		return rec, fmt.Errorf("bit_depth: %w", err)
	}
	if rec.Channels, err = strconv.Atoi(cell("channels")); err != nil {
		return rec, fmt.Errorf("channels: %w", err)
	}

	return rec, nil
}
