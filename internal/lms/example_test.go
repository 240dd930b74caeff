package lms

import (
	"fmt"
)

// Example_basicUsage demonstrates scoring one subject against a weight-for-age table
func Example_basicUsage() {
	table, err := NewTable(WeightForAge, []Row{
		{AgeMonths: 11.5, Sex: Male, L: 1, M: 9.6, S: 0.1},
		{AgeMonths: 12, Sex: Male, L: 1, M: 10, S: 0.1},
		{AgeMonths: 12, Sex: Female, L: 1, M: 9.4, S: 0.1},
	})
	if err != nil {
		fmt.Printf("Error building table: %v\n", err)
		return
	}

	params, err := table.Lookup(AgeInMonths(365.25), SexFromCode(1))
	if err != nil {
		fmt.Printf("Error looking up parameters: %v\n", err)
		return
	}

	z, err := ZScore(ToKilograms(24.2508488404), params)
	if err != nil {
		fmt.Printf("Error computing z-score: %v\n", err)
		return
	}
	pct, _ := Percentile(z)

	fmt.Printf("M=%.1f z=%.2f percentile=%.4f\n", params.M, z, pct)
	// Output: M=10.0 z=1.00 percentile=0.8413
}
