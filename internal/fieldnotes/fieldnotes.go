// SPDX-License-Identifier: EPL-2.0

// Package fieldnotes reads extra_metadata.csv: the manually collected
// biodiversity facts (species, place, date and time) that recordings do not
// carry in their headers.
package fieldnotes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FileName is the conventional name of the field notes table.
const FileName = "extra_metadata.csv"

// Columns lists the recognised headers in template order.
var Columns = []string{
	"file_name",
	"scientificName",
	"eventDate",
	"eventTime",
	"decimalLatitude",
	"decimalLongitude",
	"locality",
}

var (
	// ErrMissingColumn is returned when the file_name column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidNote wraps every validation failure.
	ErrInvalidNote = errors.New("invalid field note")
	// ErrEmpty is returned for input without a header row.
	ErrEmpty = errors.New("empty field notes")
)

// Note is one row of field notes. Cells are kept as written so the published
// tables repeat them verbatim; empty means unknown.
type Note struct {
	FileName         string `csv:"file_name" validate:"required"`
	ScientificName   string `csv:"scientificName"`
	EventDate        string `csv:"eventDate" validate:"omitempty,datetime=2006-01-02"`
	EventTime        string `csv:"eventTime" validate:"omitempty,eventtime"`
	DecimalLatitude  string `csv:"decimalLatitude" validate:"omitempty,latitude"`
	DecimalLongitude string `csv:"decimalLongitude" validate:"omitempty,longitude"`
	Locality         string `csv:"locality"`

	// Line is the 1-based CSV line the note was read from, 0 if built in code.
	Line int `csv:"-"`
}

func (n Note) record() []string {
	return []string{
		n.FileName,
		n.ScientificName,
		n.EventDate,
		n.EventTime,
		n.DecimalLatitude,
		n.DecimalLongitude,
		n.Locality,
	}
}

// Read parses field notes, matching columns by header name. Only file_name is
// mandatory; other missing columns read as empty cells and unknown columns are
// ignored. Read does not validate; see Validate.
func Read(r io.Reader) ([]Note, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	if _, ok := idx["file_name"]; !ok {
		return nil, fmt.Errorf("%w: file_name", ErrMissingColumn)
	}

	var notes []Note
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		notes = append(notes, Note{
			FileName:         cell("file_name"),
			ScientificName:   cell("scientificName"),
			EventDate:        cell("eventDate"),
			EventTime:        cell("eventTime"),
			DecimalLatitude:  cell("decimalLatitude"),
			DecimalLongitude: cell("decimalLongitude"),
			Locality:         cell("locality"),
			Line:             line,
		})
	}

	return notes, nil
}

// Write emits notes under the Columns header. The demo step uses it to lay
// down a template next to generated recordings.
func Write(w io.Writer, notes []Note) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, n := range notes {
		if err := cw.Write(n.record()); err != nil {
			return fmt.Errorf("writing %s: %w", n.FileName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Index maps file names to notes. When a file name repeats, the first note
// wins and the name is reported in dups, once per extra occurrence.
func Index(notes []Note) (byFile map[string]Note, dups []string) {
	byFile = make(map[string]Note, len(notes))
	for _, n := range notes {
		if _, seen := byFile[n.FileName]; seen {
			dups = append(dups, n.FileName)
			continue
		}
		byFile[n.FileName] = n
	}
	return byFile, dups
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("csv")
	})
	if err := v.RegisterValidation("eventtime", eventTimeValidator); err != nil {
		panic(err)
	}

	return v
}

// eventTimeValidator accepts HH:MM and HH:MM:SS.
func eventTimeValidator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Validate checks every note and returns all problems joined, each wrapping
// ErrInvalidNote. It returns nil when all notes are valid.
func Validate(notes []Note) error {
	var errs []error

	for i, n := range notes {
		err := validate.Struct(n)
		if err == nil {
			continue
		}

		where := fmt.Sprintf("row %d", i+1)
		if n.Line > 0 {
			where = fmt.Sprintf("line %d", n.Line)
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs = append(errs, fmt.Errorf("%s: %w: %w", where, ErrInvalidNote, err))
			continue
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: %w: %s", where, ErrInvalidNote, describe(fe)))
		}
	}

	return errors.Join(errs...)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	value := fmt.Sprint(fe.Value())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "datetime":
		return fmt.Sprintf("%s %q must be a date (YYYY-MM-DD)", field, value)
	case "eventtime":
		return fmt.Sprintf("%s %q must be a time (HH:MM or HH:MM:SS)", field, value)
	case "latitude":
		return fmt.Sprintf("%s %q must be between -90 and 90", field, value)
	case "longitude":
		return fmt.Sprintf("%s %q must be between -180 and 180", field, value)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
