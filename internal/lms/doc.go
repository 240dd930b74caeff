// Package lms implements the LMS (Lambda-Mu-Sigma) growth reference engine used to
// normalise pediatric anthropometric measurements against a reference population.
//
// The package is a set of small pure functions plus one immutable lookup structure:
//
//   - units.go: pound/inch to kilogram/centimeter conversion
//   - age.go: age in days to age in months (Gregorian average month)
//   - table.go: reference table construction, integrity checks and age/sex lookup
//   - zscore.go: the LMS z-score transform, including the L == 0 limit form
//   - percentile.go: z-score to cumulative percentile under the standard normal
//   - errors.go: sentinel errors and row-level integrity errors
//
// # Usage Example
//
//	table, err := lms.NewTable(lms.WeightForAge, rows)
//	if err != nil {
//	    log.Fatal(err) // reference data unusable, nothing can be scored
//	}
//
//	params, err := table.Lookup(lms.AgeInMonths(365.25), lms.Male)
//	if err != nil {
//	    return err // errors.Is(err, lms.ErrNotFound)
//	}
//
//	z, err := lms.ZScore(lms.ToKilograms(22.0462262185), params)
//	if err != nil {
//	    return err
//	}
//	p, _ := lms.Percentile(z) // 0.5
//
// # Age Zero
//
// Historically a subject aged exactly zero months is matched against the first row of
// the table regardless of sex. That behavior is kept as the default
// (PolicyFirstRowAtBirth) so prior outputs reproduce; PolicySexFilterAtBirth applies
// the sex filter at birth as well.
//
// # Thread Safety
//
// A Table is never mutated after NewTable returns and may be shared by any number of
// goroutines without locking.
package lms
