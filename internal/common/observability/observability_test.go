package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestObservability(t *testing.T) (*Observability, *metric.ManualReader) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	meter := provider.Meter("worker-test")

	jobCounter, err := meter.Int64Counter("jobs.processed")
	require.NoError(t, err)
	jobDuration, err := meter.Float64Histogram("jobs.duration")
	require.NoError(t, err)
	matchCounter, err := meter.Int64Counter("matching.programs_scored")
	require.NoError(t, err)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
		matchCounter:  matchCounter,
	}, reader
}

func collectSums(t *testing.T, reader *metric.ManualReader) map[string]int64 {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				sums[m.Name] = total
			}
		}
	}
	return sums
}

func TestObservability_RecordProgramsScored(t *testing.T) {
	obs, reader := newTestObservability(t)

	obs.RecordProgramsScored(context.Background(), 3, "citizenship")
	obs.RecordProgramsScored(context.Background(), 2, "residency")

	sums := collectSums(t, reader)
	assert.Equal(t, int64(5), sums["matching.programs_scored"])
}

func TestObservability_RecordJobProcessed(t *testing.T) {
	obs, reader := newTestObservability(t)

	obs.RecordJobProcessed(context.Background(), "completed")
	obs.RecordJobProcessed(context.Background(), "failed")
	obs.RecordJobDuration(context.Background(), 125*time.Millisecond, "completed")

	sums := collectSums(t, reader)
	assert.Equal(t, int64(2), sums["jobs.processed"])
}

func TestObservability_NilInstrumentsAreSafe(t *testing.T) {
	obs := &Observability{}

	obs.RecordJobProcessed(context.Background(), "completed")
	obs.RecordJobDuration(context.Background(), time.Second, "completed")
	obs.RecordProgramsScored(context.Background(), 1, "citizenship")
	obs.Shutdown()
}

func TestTracing_DisabledEndpointStillStartsSpans(t *testing.T) {
	tracing, err := NewTracing("worker-test", "")
	require.NoError(t, err)
	defer tracing.Shutdown()

	ctx, span := tracing.StartJobSpan(context.Background(), "match-programs", 42)
	require.NotNil(t, span)
	assert.NotNil(t, ctx)
	span.End()
}
