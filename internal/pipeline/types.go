package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"growthcli/internal/lms"
)

// Measurement selects the subject value being scored and its reference table
type Measurement int

const (
	// Weight is recorded in pounds and scored against weight-for-age
	Weight Measurement = iota + 1
	// Height is recorded in inches and scored against length/stature-for-age
	Height
)

// Measurements lists every measurement in output order
var Measurements = []Measurement{Weight, Height}

// String returns the string representation of the measurement
func (m Measurement) String() string {
	switch m {
	case Weight:
		return "weight"
	case Height:
		return "height"
	default:
		return fmt.Sprintf("measurement(%d)", int(m))
	}
}

// ParseMeasurement converts "weight" or "height" into a Measurement
func ParseMeasurement(s string) (Measurement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weight", "wt":
		return Weight, nil
	case "height", "ht", "length", "stature":
		return Height, nil
	default:
		return 0, fmt.Errorf("unknown measurement %q", s)
	}
}

// Kind returns the reference chart the measurement is scored against
func (m Measurement) Kind() lms.Kind {
	if m == Height {
		return lms.LengthForAge
	}
	return lms.WeightForAge
}

// Convert turns a raw dataset value into the metric units of the reference table
func (m Measurement) Convert(raw float64) float64 {
	if m == Height {
		return lms.ToCentimeters(raw)
	}
	return lms.ToKilograms(raw)
}

// Column returns the derived column name written for the measurement in mode
func (m Measurement) Column(mode OutputMode) string {
	prefix := "wt"
	if m == Height {
		prefix = "ht"
	}
	return prefix + "_" + mode.String()
}

// OutputMode selects whether the derived value is the z-score or its percentile
type OutputMode int

const (
	// ModeZScore emits the LMS z-score
	ModeZScore OutputMode = iota
	// ModePercentile emits the standard normal CDF of the z-score
	ModePercentile
)

// String returns the string representation of the output mode
func (m OutputMode) String() string {
	if m == ModePercentile {
		return "percentile"
	}
	return "zscore"
}

// ParseOutputMode converts "zscore" or "percentile", in any case, into an OutputMode
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(s) {
	case "zscore":
		return ModeZScore, nil
	case "percentile":
		return ModePercentile, nil
	default:
		return ModeZScore, fmt.Errorf("unknown output mode %q", s)
	}
}

// Subject is one dataset record. Weight is in pounds, Height in inches; a negative
// value marks a measurement as not recorded.
type Subject struct {
	Weight  float64
	Height  float64
	AgeDays float64
	SexCode int
	// Err is set when the record could not be read completely
	Err error
}

// Value returns the raw value recorded for m
func (s Subject) Value(m Measurement) float64 {
	if m == Height {
		return s.Height
	}
	return s.Weight
}

// Status classifies the outcome of scoring one measurement
type Status string

const (
	StatusOK           Status = "ok"
	StatusMissing      Status = "missing"
	StatusNotFound     Status = "not_found"
	StatusInvalidInput Status = "invalid_input"
	StatusNonFinite    Status = "non_finite"
)

// StatusFromError maps an engine error onto a Status. Unclassified errors are invalid input.
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, lms.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, lms.ErrNonFinite):
		return StatusNonFinite
	default:
		return StatusInvalidInput
	}
}

// Result is the outcome of scoring one measurement of one subject.
// Value is what the configured mode emits: the z-score, the percentile, or the raw
// sentinel for missing measurements. Fields that could not be computed are NaN.
type Result struct {
	Measurement Measurement
	Raw         float64
	Value       float64
	ZScore      float64
	Percentile  float64
	Status      Status
	Err         error
}

// Failed reports whether the record could not be scored
func (r Result) Failed() bool {
	return r.Status != StatusOK && r.Status != StatusMissing
}

func missingResult(m Measurement, raw float64) Result {
	return Result{
		Measurement: m,
		Raw:         raw,
		Value:       raw,
		ZScore:      math.NaN(),
		Percentile:  math.NaN(),
		Status:      StatusMissing,
	}
}

func failedResult(m Measurement, raw float64, err error) Result {
	return Result{
		Measurement: m,
		Raw:         raw,
		Value:       math.NaN(),
		ZScore:      math.NaN(),
		Percentile:  math.NaN(),
		Status:      StatusFromError(err),
		Err:         err,
	}
}

// Counts tallies results by status
type Counts struct {
	Total        int `json:"total"`
	OK           int `json:"ok"`
	Missing      int `json:"missing"`
	NotFound     int `json:"not_found"`
	InvalidInput int `json:"invalid_input"`
	NonFinite    int `json:"non_finite"`
}

// Add counts one result
func (c *Counts) Add(s Status) {
	c.Total++
	switch s {
	case StatusOK:
		c.OK++
	case StatusMissing:
		c.Missing++
	case StatusNotFound:
		c.NotFound++
	case StatusNonFinite:
		c.NonFinite++
	default:
		c.InvalidInput++
	}
}

// Failed returns the number of records that could not be scored
func (c Counts) Failed() int {
	return c.NotFound + c.InvalidInput + c.NonFinite
}

// Count tallies results by status
func Count(results []Result) Counts {
	var c Counts
	for _, r := range results {
		c.Add(r.Status)
	}
	return c
}
