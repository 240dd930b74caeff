// Package http exposes the growth scoring engine over HTTP.
//
// Handlers are thin: they decode and validate the JSON body, hand the subject to
// pipeline.Processor and render the result with go-chi/render. Failures are rendered as
// RFC 7807 problem details by internal/errors.
//
// # Routes
//
//	GET  /healthz        table sizes and lookup policy
//	GET  /metrics        Prometheus exposition of the OpenTelemetry meter
//	POST /api/v1/score   score one measurement
//	POST /api/v1/batch   score weight and height for up to Server.MaxBatchSize subjects
//
// A measurement that cannot be scored is a 422 on /score. On /batch the run never
// aborts on a bad record: each row carries its own status.
package http
