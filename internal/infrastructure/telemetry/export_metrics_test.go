package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/shipdocs/backend/internal/infrastructure/printing"
	"github.com/shipdocs/backend/internal/infrastructure/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.AsString()] += dp.Value
	}
	return out
}

func TestNewExportMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewExportMetrics(nil)
	require.Error(t, err)
	assert.Nil(t, m)
}

func TestExportMetrics_RecordExport(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewExportMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordExport(ctx, "success", 2*time.Second, 3)
	m.RecordExport(ctx, "success", time.Second, 1)
	m.RecordExport(ctx, "busy", time.Millisecond, 0)

	metrics := collect(t, reader)
	counts := sumByAttr(t, metrics["shipdocs_export_total"], telemetry.AttrOutcome)
	assert.Equal(t, int64(2), counts["success"])
	assert.Equal(t, int64(1), counts["busy"])

	pages, ok := metrics["shipdocs_export_pages"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, pages.DataPoints, 1)
	assert.Equal(t, uint64(2), pages.DataPoints[0].Count, "exports without pages are not recorded")
	assert.Equal(t, 4.0, pages.DataPoints[0].Sum)

	duration, ok := metrics["shipdocs_export_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, duration.DataPoints, 2)
}

func TestExportMetrics_RecordImages(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewExportMetrics(provider.Meter("test"))
	require.NoError(t, err)

	m.RecordImages(context.Background(), printing.SettleReport{Total: 5, Loaded: 3, Failed: 2})
	m.RecordImages(context.Background(), printing.SettleReport{})

	counts := sumByAttr(t, collect(t, reader)["shipdocs_export_images_total"], telemetry.AttrImageResult)
	assert.Equal(t, int64(3), counts["loaded"])
	assert.Equal(t, int64(2), counts["failed"])
}
