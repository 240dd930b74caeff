package lms

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// LookupPolicy selects how a lookup at exactly zero months is resolved
type LookupPolicy int

const (
	// PolicyFirstRowAtBirth returns the first table row at age zero, whatever its sex.
	// This reproduces historical outputs.
	PolicyFirstRowAtBirth LookupPolicy = iota
	// PolicySexFilterAtBirth applies the regular sex-filtered search at age zero too
	PolicySexFilterAtBirth
)

// String returns the string representation of the policy
func (p LookupPolicy) String() string {
	switch p {
	case PolicyFirstRowAtBirth:
		return "first-row-at-birth"
	case PolicySexFilterAtBirth:
		return "sex-filter-at-birth"
	default:
		return "unknown"
	}
}

// TableOption configures a Table at construction time
type TableOption func(*Table)

// WithLookupPolicy sets the age-zero lookup policy
func WithLookupPolicy(policy LookupPolicy) TableOption {
	return func(t *Table) {
		t.policy = policy
	}
}

// Table is an immutable growth reference table for one chart kind
type Table struct {
	kind   Kind
	policy LookupPolicy
	rows   []Row
	male   []Row
	female []Row
}

// NewTable validates rows and builds a lookup table. Every integrity problem found is
// reported in the returned error; a table with any problem is unusable and nil is returned.
func NewTable(kind Kind, rows []Row, opts ...TableOption) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", kind, ErrEmptyTable)
	}

	t := &Table{
		kind:   kind,
		policy: PolicyFirstRowAtBirth,
		rows:   make([]Row, len(rows)),
	}
	copy(t.rows, rows)

	for _, opt := range opts {
		opt(t)
	}

	var errs []error
	lastAge := map[Sex]float64{Male: math.Inf(-1), Female: math.Inf(-1)}

	for i, row := range t.rows {
		rowErrs := validateRow(i, row)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}

		if row.AgeMonths < lastAge[row.Sex] {
			errs = append(errs, &RowError{Index: i, Field: "AgeMonths", Value: row.AgeMonths, Err: ErrUnorderedTable})
			continue
		}
		lastAge[row.Sex] = row.AgeMonths

		switch row.Sex {
		case Male:
			t.male = append(t.male, row)
		case Female:
			t.female = append(t.female, row)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", kind, errors.Join(errs...))
	}

	return t, nil
}

// validateRow checks the invariants the LMS transform relies on
func validateRow(index int, row Row) []error {
	var errs []error

	if math.IsNaN(row.AgeMonths) || math.IsInf(row.AgeMonths, 0) || row.AgeMonths < 0 {
		errs = append(errs, &RowError{Index: index, Field: "AgeMonths", Value: row.AgeMonths, Err: ErrInvalidRow})
	}
	if !row.Sex.IsValid() {
		errs = append(errs, &RowError{Index: index, Field: "Sex", Value: int(row.Sex), Err: ErrInvalidRow})
	}
	if !isFinite(row.L) {
		errs = append(errs, &RowError{Index: index, Field: "L", Value: row.L, Err: ErrDegenerateParameters})
	}
	if !isFinite(row.M) || row.M <= 0 {
		errs = append(errs, &RowError{Index: index, Field: "M", Value: row.M, Err: ErrDegenerateParameters})
	}
	if !isFinite(row.S) || row.S == 0 {
		errs = append(errs, &RowError{Index: index, Field: "S", Value: row.S, Err: ErrDegenerateParameters})
	}

	return errs
}

// Kind returns the chart kind of the table
func (t *Table) Kind() Kind {
	return t.kind
}

// Policy returns the age-zero lookup policy
func (t *Table) Policy() LookupPolicy {
	return t.policy
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in table order
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Lookup returns the LMS parameters of the last row of the requested sex whose floored
// age does not exceed the floored target age.
func (t *Table) Lookup(ageMonths float64, sex Sex) (Params, error) {
	if !isFinite(ageMonths) {
		return Params{}, fmt.Errorf("%s lookup: age %v months: %w", t.kind, ageMonths, ErrInvalidInput)
	}

	if ageMonths == 0 && t.policy == PolicyFirstRowAtBirth {
		return t.rows[0].Params(), nil
	}

	group := t.group(sex)
	target := math.Floor(ageMonths)

	// rows are in non-decreasing age order, so floored ages are too
	i := sort.Search(len(group), func(i int) bool {
		return math.Floor(group[i].AgeMonths) > target
	})
	if i == 0 {
		return Params{}, fmt.Errorf("%s lookup: %s at %.4f months: %w", t.kind, sex, ageMonths, ErrNotFound)
	}

	return group[i-1].Params(), nil
}

func (t *Table) group(sex Sex) []Row {
	switch sex {
	case Male:
		return t.male
	case Female:
		return t.female
	default:
		return nil
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
