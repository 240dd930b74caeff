package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"growthcli/internal/infrastructure"
)

func TestTelemetryRecordsBatch(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	defer tp.Shutdown(context.Background())

	telemetry, err := NewTelemetry(&infrastructure.OTelProviders{
		Tracer: tp.Tracer("test"),
		Meter:  mp.Meter("test"),
	})
	require.NoError(t, err)

	p := newTestProcessor(t, Options{Telemetry: telemetry})
	subjects := []Subject{
		{Weight: pounds(10, 0), Height: inches(76, 0), AgeDays: 400, SexCode: 1},
		{Weight: -1, Height: 20, AgeDays: 10, SexCode: 1},
	}

	_, err = p.Process(context.Background(), subjects)
	require.NoError(t, err)

	var names []string
	for _, s := range spans.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"pipeline.process.weight", "pipeline.process.height"}, names)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	histograms := map[string]uint64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					histograms[m.Name] += dp.Count
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					histograms[m.Name] += dp.Count
				}
			}
		}
	}

	assert.Equal(t, int64(4), sums["growth_records_scored_total"])
	assert.Equal(t, int64(1), sums["growth_lookup_failures_total"])
	assert.Equal(t, uint64(1), histograms["growth_batch_duration_seconds"])
	assert.Equal(t, uint64(1), histograms["growth_batch_records"])
}

func TestNilTelemetryIsNoop(t *testing.T) {
	telemetry, err := NewTelemetry(nil)
	require.NoError(t, err)
	assert.Nil(t, telemetry)

	p := newTestProcessor(t, Options{Telemetry: telemetry})
	_, err = p.Process(context.Background(), subjectsFixture(5))
	assert.NoError(t, err)
}
