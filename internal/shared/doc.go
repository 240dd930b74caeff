// Package shared groups helpers that are used across the growth packages but belong to
// none of them.
//
// The testutil subpackage provides:
//
//   - a capturing slog handler for asserting on log output
//   - small synthetic LMS reference tables
//   - workbook fixtures written with excelize into a test's temp directory
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    weight, height := testutil.NewTables(t)
//	    // ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "scoring run complete")
//	}
package shared
