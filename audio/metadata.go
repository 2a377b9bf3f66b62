// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"strconv"

	"github.com/ik5/audiodwc/utils"
)

// DurationPlaces is the number of decimals kept in DurationSeconds.
const DurationPlaces = 3

// TechnicalMetadata is the per-recording record published in
// metadata_extracted.csv. Values are immutable once built.
type TechnicalMetadata struct {
	FileName        string
	DurationSeconds float64
	SamplingRateHz  int
	BitDepth        int
	Channels        int
}

// Columns is the CSV header, in publishing order.
var Columns = []string{"file_name", "duration_seconds", "sampling_rate_hz", "bit_depth", "channels"}

// NewTechnicalMetadata builds the record for fileName from probed header info.
// The sample rate and channel count must be positive for the duration to mean
// anything; otherwise a *FormatError is returned and no record is produced.
func NewTechnicalMetadata(fileName string, info Info) (TechnicalMetadata, error) {
	switch {
	case info.SampleRate <= 0:
		return TechnicalMetadata{}, &FormatError{Path: fileName, Reason: "zero sample rate"}
	case info.Channels <= 0:
		return TechnicalMetadata{}, &FormatError{Path: fileName, Reason: "zero channels"}
	case info.BitDepth <= 0:
		return TechnicalMetadata{}, &FormatError{Path: fileName, Reason: "zero bit depth"}
	case info.Frames < 0:
		return TechnicalMetadata{}, &FormatError{Path: fileName, Reason: "negative frame count"}
	}

	return TechnicalMetadata{
		FileName:        fileName,
		DurationSeconds: utils.Round(float64(info.Frames)/float64(info.SampleRate), DurationPlaces),
		SamplingRateHz:  info.SampleRate,
		BitDepth:        info.BitDepth,
		Channels:        info.Channels,
	}, nil
}

// Record returns the CSV cells in Columns order.
func (m TechnicalMetadata) Record() []string {
	return []string{
		m.FileName,
		utils.FormatDecimal(m.DurationSeconds),
		strconv.Itoa(m.SamplingRateHz),
		strconv.Itoa(m.BitDepth),
		strconv.Itoa(m.Channels),
	}
}
