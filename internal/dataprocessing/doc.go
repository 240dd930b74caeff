// Package dataprocessing reads growth reference tables and subject datasets from Excel
// workbooks and CSV files.
//
// # Reference tables
//
// A reference sheet has a header row naming the columns Sex, L, M, S and an age column
// called Agemos (CDC files) or AgeInMonths. Header matching ignores case and surrounding
// spaces; other columns such as the published percentile curves are ignored.
//
//	rows, err := dataprocessing.ParseReferenceFile("wtagecombined.xlsx", "Sheet1")
//	table, err := lms.NewTable(lms.WeightForAge, rows)
//
// All unreadable cells of a sheet are reported together as *lms.RowError values joined
// with errors.Join.
//
// # Subject datasets
//
// A dataset has a header row with WEIGHT, HEIGHT, AGE_DAYS and SEX. Every other column is
// carried through untouched so the export keeps the original record shape. Empty or
// unreadable measurement cells become NaN and are later scored as invalid input; an
// unreadable age or sex marks the whole record as invalid without stopping the load.
//
// # Sheets
//
// An empty sheet name or "Sheet1" falls back to the first sheet of the workbook when no
// sheet of that name exists. Any other missing sheet is an error.
package dataprocessing
