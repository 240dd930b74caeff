package lms

import (
	"fmt"
	"math"
)

// ZScore applies the LMS transform to a measurement expressed in the table's units.
//
//	z = ((x/M)^L - 1) / (L*S)   for L != 0
//	z = ln(x/M) / S             for L == 0
//
// The measurement must be strictly positive and finite.
func ZScore(measurement float64, p Params) (float64, error) {
	if !(measurement > 0) || math.IsInf(measurement, 1) {
		return math.NaN(), fmt.Errorf("measurement %v: %w", measurement, ErrInvalidInput)
	}

	ratio := measurement / p.M

	var z float64
	if p.L == 0 {
		z = math.Log(ratio) / p.S
	} else {
		z = (math.Pow(ratio, p.L) - 1) / (p.L * p.S)
	}

	if !isFinite(z) {
		return z, fmt.Errorf("z-score for measurement %v with L=%v M=%v S=%v: %w", measurement, p.L, p.M, p.S, ErrNonFinite)
	}
	if z == 0 {
		z = 0 // drop the sign of -0 produced by a negative L*S
	}

	return z, nil
}
