package lms

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// Percentile returns the standard normal cumulative probability of z, in [0, 1]
func Percentile(z float64) (float64, error) {
	if !isFinite(z) {
		return math.NaN(), fmt.Errorf("percentile of z-score %v: %w", z, ErrNonFinite)
	}
	return stats.StdNormal.CDF(z), nil
}
