package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/shipdocs/backend/internal/infrastructure/printing"
)

// ExportMetrics records PDF export outcomes. It satisfies the export
// pipeline's Recorder.
type ExportMetrics struct {
	exports  *Counter
	duration *Histogram
	pages    *Histogram
	images   *Counter
}

// NewExportMetrics creates the export instruments on meter.
func NewExportMetrics(meter metric.Meter) (*ExportMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewExportMetrics: meter cannot be nil")
	}

	exports, err := NewCounter(meter, "shipdocs_export_total", "PDF export attempts by outcome", "{export}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "shipdocs_export_duration_seconds",
		Description: "Time from export request to finished PDF",
		Unit:        "s",
		Boundaries:  ExportDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	pages, err := NewHistogram(meter, HistogramOpts{
		Name:        "shipdocs_export_pages",
		Description: "Pages per exported PDF",
		Unit:        "{page}",
		Boundaries:  PageCountBuckets,
	})
	if err != nil {
		return nil, err
	}
	images, err := NewCounter(meter, "shipdocs_export_images_total", "Images settled by the readiness barrier", "{image}")
	if err != nil {
		return nil, err
	}

	return &ExportMetrics{exports: exports, duration: duration, pages: pages, images: images}, nil
}

// RecordExport counts one export attempt.
func (m *ExportMetrics) RecordExport(ctx context.Context, outcome string, duration time.Duration, pages int) {
	m.exports.Inc(ctx, AttrOutcome.String(outcome))
	m.duration.RecordDuration(ctx, duration, AttrOutcome.String(outcome))
	if pages > 0 {
		m.pages.Record(ctx, float64(pages))
	}
}

// RecordImages counts loaded and failed images of one page.
func (m *ExportMetrics) RecordImages(ctx context.Context, report printing.SettleReport) {
	if report.Loaded > 0 {
		m.images.Add(ctx, int64(report.Loaded), AttrImageResult.String("loaded"))
	}
	if report.Failed > 0 {
		m.images.Add(ctx, int64(report.Failed), AttrImageResult.String("failed"))
	}
}
