package lms

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no reference row matches the requested sex at or before the floored age
	ErrNotFound = errors.New("no reference row at or before age")
	// ErrInvalidInput means a measurement or age cannot be transformed (non-positive, NaN, infinite)
	ErrInvalidInput = errors.New("invalid input")
	// ErrNonFinite means a calculation produced NaN or an infinity
	ErrNonFinite = errors.New("non-finite value")
	// ErrDegenerateParameters means a reference row has M <= 0, S == 0 or non-finite LMS values
	ErrDegenerateParameters = errors.New("degenerate LMS parameters")
	// ErrInvalidRow means a reference row has an unusable age or sex
	ErrInvalidRow = errors.New("invalid reference row")
	// ErrUnorderedTable means reference rows of one sex are not in non-decreasing age order
	ErrUnorderedTable = errors.New("reference rows out of age order")
	// ErrEmptyTable means a table was built from zero rows
	ErrEmptyTable = errors.New("empty reference table")
)

// RowError describes a single integrity failure found while building a table
type RowError struct {
	Index int         `json:"index"`
	Field string      `json:"field"`
	Value interface{} `json:"value,omitempty"`
	Err   error       `json:"-"`
}

// Error implements the error interface
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s=%v: %v", e.Index, e.Field, e.Value, e.Err)
}

// Unwrap returns the sentinel classifying the failure
func (e *RowError) Unwrap() error {
	return e.Err
}
