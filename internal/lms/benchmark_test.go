package lms

import (
	"testing"
)

func generateBenchmarkRows(months int) []Row {
	rows := make([]Row, 0, 2*months)
	for _, sex := range []Sex{Male, Female} {
		for m := 0; m < months; m++ {
			age := float64(m) + 0.5
			rows = append(rows, Row{AgeMonths: age, Sex: sex, L: -0.2, M: 3.5 + 0.4*age, S: 0.11})
		}
	}
	return rows
}

// BenchmarkLookup benchmarks the table lookup across common table sizes
func BenchmarkLookup(b *testing.B) {
	benchmarks := []struct {
		name   string
		months int
	}{
		{"infant_table_36_months", 36},
		{"stature_table_240_months", 240},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			table, err := NewTable(WeightForAge, generateBenchmarkRows(bm.months))
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_, _ = table.Lookup(float64(i%bm.months)+0.25, Female)
			}
		})
	}
}

// BenchmarkZScorePercentile benchmarks the transform chain for one measurement
func BenchmarkZScorePercentile(b *testing.B) {
	p := Params{L: -0.216501213, M: 12.74154396, S: 0.108166006}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		z, _ := ZScore(11.5, p)
		_, _ = Percentile(z)
	}
}
