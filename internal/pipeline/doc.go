// Package pipeline scores subject records against growth reference tables.
//
// A Processor composes the lms engine per record and per measurement:
//
//	raw value -> missing sentinel check -> unit conversion -> age in months
//	          -> reference lookup -> LMS z-score -> percentile (percentile mode)
//
// A negative raw value is the dataset's "not recorded" marker and is emitted unchanged.
// Every other failure (no reference row, unusable value, non-finite result) is attached
// to the record's Result; a batch never aborts because of a single record.
//
// Batches are scored concurrently with a bounded worker count. Results keep the input
// order. Cancelling the context stops scheduling and returns the context error.
package pipeline
