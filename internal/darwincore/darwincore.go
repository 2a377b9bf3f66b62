// SPDX-License-Identifier: EPL-2.0

// Package darwincore joins technical metadata with field notes and renders
// the result as Darwin Core Event and Occurrence tables.
package darwincore

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ik5/audiodwc/audio"
	"github.com/ik5/audiodwc/internal/fieldnotes"
	"github.com/ik5/audiodwc/utils"
)

const (
	// EventFileName and OccurrenceFileName are the conventional output names.
	EventFileName      = "dwc_event.csv"
	OccurrenceFileName = "dwc_occurrence.csv"

	// BasisOfRecord for every row: recordings are machine observations.
	BasisOfRecord = "MachineObservation"

	DefaultMediaBaseURL   = "https://demo.org/media/"
	DefaultScientificName = "Unknown species (demo)"
)

var (
	// EventColumns is the dwc_event.csv header.
	EventColumns = []string{"eventID", "eventDate", "eventTime", "decimalLatitude", "decimalLongitude", "locality"}
	// OccurrenceColumns is the dwc_occurrence.csv header.
	OccurrenceColumns = []string{"occurrenceID", "eventID", "scientificName", "basisOfRecord", "associatedMedia", "duration_sec"}
)

// Options tune how rows are derived.
type Options struct {
	// MediaBaseURL prefixes file names in associatedMedia.
	MediaBaseURL string
	// DefaultScientificName fills occurrences without a species.
	DefaultScientificName string
}

func (o Options) withDefaults() Options {
	if o.MediaBaseURL == "" {
		o.MediaBaseURL = DefaultMediaBaseURL
	}
	if o.DefaultScientificName == "" {
		o.DefaultScientificName = DefaultScientificName
	}
	return o
}

// Record is one recording after the join. Note is the zero value when the
// recording has no field notes.
type Record struct {
	Tech    audio.TechnicalMetadata
	Note    fieldnotes.Note
	HasNote bool
}

// Stem returns fileName up to its first dot.
func Stem(fileName string) string {
	stem, _, _ := strings.Cut(fileName, ".")
	return stem
}

// EventID derives the event identifier of a recording.
func (r Record) EventID() string { return "event_" + Stem(r.Tech.FileName) }

// Merge left-joins tech with notes on file name. Every technical record yields
// exactly one Record, in the order given.
func Merge(tech []audio.TechnicalMetadata, notes map[string]fieldnotes.Note) []Record {
	out := make([]Record, 0, len(tech))
	for _, t := range tech {
		n, ok := notes[t.FileName]
		out = append(out, Record{Tech: t, Note: n, HasNote: ok})
	}
	return out
}

// Event is a row of dwc_event.csv.
type Event struct {
	EventID          string
	EventDate        string
	EventTime        string
	DecimalLatitude  string
	DecimalLongitude string
	Locality         string
}

func (e Event) record() []string {
	return []string{e.EventID, e.EventDate, e.EventTime, e.DecimalLatitude, e.DecimalLongitude, e.Locality}
}

// Events builds the event table. Identical rows are dropped, keeping the
// first, so recordings that share a stem and notes collapse into one event.
func Events(records []Record) []Event {
	seen := make(map[Event]struct{}, len(records))
	events := make([]Event, 0, len(records))

	for _, r := range records {
		e := Event{
			EventID:          r.EventID(),
			EventDate:        r.Note.EventDate,
			EventTime:        r.Note.EventTime,
			DecimalLatitude:  r.Note.DecimalLatitude,
			DecimalLongitude: r.Note.DecimalLongitude,
			Locality:         r.Note.Locality,
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		events = append(events, e)
	}

	return events
}

// Occurrence is a row of dwc_occurrence.csv.
type Occurrence struct {
	OccurrenceID    string
	EventID         string
	ScientificName  string
	BasisOfRecord   string
	AssociatedMedia string
	DurationSec     float64
}

func (o Occurrence) record() []string {
	return []string{
		o.OccurrenceID,
		o.EventID,
		o.ScientificName,
		o.BasisOfRecord,
		o.AssociatedMedia,
		utils.FormatDecimal(o.DurationSec),
	}
}

// Occurrences builds one occurrence per record, in order.
func Occurrences(records []Record, opts Options) []Occurrence {
	opts = opts.withDefaults()

	base := opts.MediaBaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	occs := make([]Occurrence, 0, len(records))
	for _, r := range records {
		eventID := r.EventID()

		name := r.Note.ScientificName
		if name == "" {
			name = opts.DefaultScientificName
		}

		occs = append(occs, Occurrence{
			OccurrenceID:    "occ_" + eventID + "_" + Stem(r.Tech.FileName),
			EventID:         eventID,
			ScientificName:  name,
			BasisOfRecord:   BasisOfRecord,
			AssociatedMedia: base + url.PathEscape(r.Tech.FileName),
			DurationSec:     r.Tech.DurationSeconds,
		})
	}

	return occs
}

// WriteEvents emits dwc_event.csv.
func WriteEvents(w io.Writer, events []Event) error {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, e.record())
	}
	return writeTable(w, EventColumns, rows)
}

// WriteOccurrences emits dwc_occurrence.csv.
func WriteOccurrences(w io.Writer, occs []Occurrence) error {
	rows := make([][]string, 0, len(occs))
	for _, o := range occs {
		rows = append(rows, o.record())
	}
	return writeTable(w, OccurrenceColumns, rows)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}

	return nil
}
