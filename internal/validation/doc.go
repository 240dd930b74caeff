// Package validation checks the files a batch run reads and writes.
//
// Reference tables and subject datasets must be readable workbooks or CSV files, and
// the export destination must sit in a directory the process can write to. Checking
// these up front turns a bad path into one clear error instead of a partially written
// result.
package validation
