package exporter

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/montanaflynn/stats"

	"growthcli/internal/pipeline"
)

// ColumnSummary describes the scored values of one derived column
type ColumnSummary struct {
	Column  string
	Scored  int
	Missing int
	Failed  int
	Mean    float64
	Median  float64
	StdDev  float64
	Min     float64
	Max     float64
}

var summaryHeaders = []string{"column", "scored", "missing", "failed", "mean", "median", "stddev", "min", "max"}

// Summarize computes descriptive statistics per derived column. Statistics of a column
// without scored values are NaN.
func Summarize(batch *pipeline.Batch) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(pipeline.Measurements))

	for _, m := range pipeline.Measurements {
		results := batch.Results(m)
		counts := pipeline.Count(results)

		values := make(stats.Float64Data, 0, counts.OK)
		for _, r := range results {
			if r.Status == pipeline.StatusOK {
				values = append(values, r.Value)
			}
		}

		s := ColumnSummary{
			Column:  m.Column(batch.Mode),
			Scored:  counts.OK,
			Missing: counts.Missing,
			Failed:  counts.Failed(),
		}
		s.Mean = statOrNaN(values.Mean)
		s.Median = statOrNaN(values.Median)
		s.StdDev = statOrNaN(values.StandardDeviation)
		s.Min = statOrNaN(values.Min)
		s.Max = statOrNaN(values.Max)

		out = append(out, s)
	}

	return out
}

func statOrNaN(fn func() (float64, error)) float64 {
	v, err := fn()
	if err != nil {
		return math.NaN()
	}
	return v
}

// summaryRecords renders summaries as CSV rows matching summaryHeaders
func summaryRecords(summaries []ColumnSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Column,
			formatInt(s.Scored),
			formatInt(s.Missing),
			formatInt(s.Failed),
			formatFloat(s.Mean),
			formatFloat(s.Median),
			formatFloat(s.StdDev),
			formatFloat(s.Min),
			formatFloat(s.Max),
		})
	}
	return records
}

// SummaryPath derives the summary report path from an export path:
// scores.xlsx becomes scores.summary.csv
func SummaryPath(exportPath string) string {
	ext := filepath.Ext(exportPath)
	return strings.TrimSuffix(exportPath, ext) + ".summary.csv"
}
