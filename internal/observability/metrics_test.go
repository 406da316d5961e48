package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupManualReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, InitInstruments())
	t.Cleanup(func() {
		otel.SetMeterProvider(previous)
		require.NoError(t, InitInstruments())
	})
	return reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				return sum
			}
		}
	}
	t.Fatalf("metric %s not found", name)
	return metricdata.Sum[int64]{}
}

func TestRecordAPIRequest(t *testing.T) {
	reader := setupManualReader(t)
	ctx := context.Background()

	RecordAPIRequest(ctx, "list_study_spots", nil)
	RecordAPIRequest(ctx, "list_study_spots", nil)
	RecordAPIRequest(ctx, "recommend", errors.New("down"))

	sum := collectSum(t, reader, MetricAPIRequests)
	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value(attribute.Key("op"))
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		counts[op.AsString()+"/"+outcome.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), counts["list_study_spots/ok"])
	assert.Equal(t, int64(1), counts["recommend/error"])
}

func TestRecordReviewSubmitted(t *testing.T) {
	reader := setupManualReader(t)

	RecordReviewSubmitted(context.Background(), 4)

	sum := collectSum(t, reader, MetricReviewsSubmitted)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
}
