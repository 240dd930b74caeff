// Package exporter materializes scored subject datasets.
//
// BuildScored appends one derived column per measurement to the original dataset,
// named after the output mode (wt_zscore, ht_percentile, ...). Missing measurements keep
// their sentinel cell verbatim. Records that could not be scored get an empty value and,
// when error columns are enabled, the failure status in a companion <column>_error
// column.
//
// The result can be written as CSV, with an optional UTF-8 BOM for Excel, or as an XLSX
// workbook. Summarize computes per-column descriptive statistics of the scored values.
//
// Example usage:
//
//	scored, err := exporter.BuildScored(dataset, batch, true)
//	if err != nil {
//	    return err
//	}
//	exp := exporter.New(logger)
//	err = exp.Export(ctx, scored, exporter.Options{Path: "scores.xlsx", Format: exporter.FormatXLSX})
package exporter
