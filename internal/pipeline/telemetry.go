package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"growthcli/internal/infrastructure"
)

// Telemetry carries the optional tracer and instruments used by a Processor.
// A nil *Telemetry, or nil fields, disable the corresponding signal.
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *infrastructure.GrowthMetrics
}

// NewTelemetry builds Telemetry from initialized OpenTelemetry providers
func NewTelemetry(providers *infrastructure.OTelProviders) (*Telemetry, error) {
	if providers == nil {
		return nil, nil
	}
	metrics, err := infrastructure.CreateGrowthMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}
	return &Telemetry{Tracer: providers.Tracer, Metrics: metrics}, nil
}

func (t *Telemetry) startSpan(ctx context.Context, m Measurement, records int) (context.Context, trace.Span) {
	if t == nil || t.Tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.Tracer.Start(ctx, "pipeline.process."+m.String(),
		trace.WithAttributes(
			attribute.String("measurement", m.String()),
			attribute.Int("records", records),
		),
	)
}

func (t *Telemetry) endSpan(span trace.Span, counts Counts, err error) {
	if t == nil || t.Tracer == nil {
		return
	}
	span.SetAttributes(
		attribute.Int("ok", counts.OK),
		attribute.Int("missing", counts.Missing),
		attribute.Int("failed", counts.Failed()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *Telemetry) recordResult(ctx context.Context, r Result) {
	if t == nil || t.Metrics == nil {
		return
	}
	measurement := attribute.String("measurement", r.Measurement.String())
	t.Metrics.RecordsScored.Add(ctx, 1, metric.WithAttributes(
		measurement,
		attribute.String("status", string(r.Status)),
	))
	if r.Status == StatusNotFound {
		t.Metrics.LookupFailures.Add(ctx, 1, metric.WithAttributes(measurement))
	}
}

func (t *Telemetry) recordBatch(ctx context.Context, records int, elapsed time.Duration) {
	if t == nil || t.Metrics == nil {
		return
	}
	t.Metrics.BatchDuration.Record(ctx, elapsed.Seconds())
	t.Metrics.BatchRecords.Record(ctx, int64(records))
}
