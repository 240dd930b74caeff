package lms

import "fmt"

// Sex is the sex category a reference row applies to
type Sex int

const (
	// Male reference population
	Male Sex = iota + 1
	// Female reference population
	Female
)

// SexFromCode maps a dataset sex code onto a Sex: 1 is Male, every other value is Female
func SexFromCode(code int) Sex {
	if code == 1 {
		return Male
	}
	return Female
}

// String returns the string representation of the sex
func (s Sex) String() string {
	switch s {
	case Male:
		return "Male"
	case Female:
		return "Female"
	default:
		return "unknown"
	}
}

// IsValid reports whether s is Male or Female
func (s Sex) IsValid() bool {
	return s == Male || s == Female
}

// Kind identifies which growth chart a table describes
type Kind int

const (
	// WeightForAge tables hold kilogram LMS parameters
	WeightForAge Kind = iota + 1
	// LengthForAge tables hold centimeter LMS parameters (recumbent length, then stature)
	LengthForAge
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case WeightForAge:
		return "weight-for-age"
	case LengthForAge:
		return "length-for-age"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Row is one line of a growth reference table
type Row struct {
	AgeMonths float64 `json:"age_months"`
	Sex       Sex     `json:"sex"`
	L         float64 `json:"l"` // Box-Cox power
	M         float64 `json:"m"` // median
	S         float64 `json:"s"` // generalized coefficient of variation
}

// Params returns the LMS triple carried by the row
func (r Row) Params() Params {
	return Params{L: r.L, M: r.M, S: r.S}
}

// Params is the LMS parameter triple returned by a lookup
type Params struct {
	L float64 `json:"l"`
	M float64 `json:"m"`
	S float64 `json:"s"`
}
