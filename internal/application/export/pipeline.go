package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shipdocs/backend/internal/domain/printing"
	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/domain/shipping"
	infra "github.com/shipdocs/backend/internal/infrastructure/printing"
	"github.com/shipdocs/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var profileLabels = map[string]string{telemetry.ProfilingLabelOperation: "export_convert"}

// Result is one produced PDF, ready to be sent as a download
type Result struct {
	DocumentID string
	Filename   string
	PDF        []byte
	// Pages is zero when the page count could not be read back
	Pages    int
	Images   infra.SettleReport
	Duration time.Duration
	// ArchiveLocation is empty when archiving is disabled or failed
	ArchiveLocation string
}

// Pipeline turns a stored document into a PDF: guard, image barrier,
// conversion, then download. The steps run strictly in that order.
type Pipeline struct {
	docs      DocumentSource
	renderer  PageRenderer
	guard     Guard
	barrier   Barrier
	converter infra.PDFConverter
	counter   PageCounter
	archive   Archive
	recorder  Recorder
	settings  printing.PageSettings
	timeout   time.Duration
	logger    *zap.Logger
}

// Option configures optional pipeline parts
type Option func(*Pipeline)

// WithPageCounter reads the page count of every produced PDF
func WithPageCounter(c PageCounter) Option {
	return func(p *Pipeline) { p.counter = c }
}

// WithArchive stores a copy of every produced PDF
func WithArchive(a Archive) Option {
	return func(p *Pipeline) { p.archive = a }
}

// WithRecorder reports export metrics
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithConvertTimeout bounds the conversion step
func WithConvertTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithLogger sets the pipeline logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates an export pipeline. Page settings are fixed to
// printing.ExportSettings and cannot be changed by callers.
func NewPipeline(docs DocumentSource, renderer PageRenderer, guard Guard, barrier Barrier, converter infra.PDFConverter, opts ...Option) *Pipeline {
	p := &Pipeline{
		docs:      docs,
		renderer:  renderer,
		guard:     guard,
		barrier:   barrier,
		converter: converter,
		recorder:  nopRecorder{},
		settings:  printing.ExportSettings(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Export produces the PDF of one document. A second call for the same
// document while the first is running returns shared.ErrExportInProgress
// without converting anything. Conversion errors are returned as is.
func (p *Pipeline) Export(ctx context.Context, id string) (result *Result, err error) {
	start := time.Now()
	outcome := OutcomeFailed
	pages := 0
	ctx, span := telemetry.StartSpan(ctx, "export.pdf", attribute.String("document_id", id))
	defer func() {
		span.SetAttributes(telemetry.AttrOutcome.String(outcome))
		if outcome == OutcomeSuccess {
			telemetry.SetOK(span)
		} else {
			telemetry.RecordError(span, err)
		}
		span.End()
		p.recorder.RecordExport(ctx, outcome, time.Since(start), pages)
	}()

	doc, err := p.docs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			outcome = OutcomeNotFound
		}
		return nil, err
	}

	acquired, err := p.guard.Acquire(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire export guard: %w", err)
	}
	if !acquired {
		outcome = OutcomeBusy
		p.logger.Info("export already running, ignoring request", zap.String("id", doc.ID))
		return nil, shared.ErrExportInProgress
	}
	// Released on every path, panics included. The request context may
	// already be done, so release must not depend on it.
	defer func() {
		if releaseErr := p.guard.Release(context.WithoutCancel(ctx), doc.ID); releaseErr != nil {
			p.logger.Error("failed to release export guard",
				zap.String("id", doc.ID), zap.Error(releaseErr))
		}
	}()

	page, err := p.renderer.RenderDocument(doc, printing.VariantExport, false, false)
	if err != nil {
		return nil, err
	}

	settleCtx, settleSpan := telemetry.StartSpan(ctx, "export.settle_images")
	settled, report, err := p.barrier.Settle(settleCtx, page)
	settleSpan.SetAttributes(
		attribute.Int("images.total", report.Total),
		attribute.Int("images.failed", report.Failed))
	telemetry.RecordError(settleSpan, err)
	settleSpan.End()
	if err != nil {
		return nil, err
	}
	p.recorder.RecordImages(ctx, report)

	convertCtx, convertSpan := telemetry.StartSpan(ctx, "export.convert")
	var converted *infra.ConvertResult
	telemetry.WithProfilingLabels(convertCtx, profileLabels, func(ctx context.Context) {
		converted, err = p.converter.Convert(ctx, &infra.ConvertRequest{
			HTML:     settled,
			Settings: p.settings,
			Title:    shipping.ExportFilename(doc),
			Timeout:  p.timeout,
		})
	})
	telemetry.RecordError(convertSpan, err)
	convertSpan.End()
	if err != nil {
		p.logger.Error("PDF conversion failed", zap.String("id", doc.ID), zap.Error(err))
		return nil, err
	}

	result = &Result{
		DocumentID: doc.ID,
		Filename:   shipping.ExportFilename(doc),
		PDF:        converted.PDFData,
		Images:     report,
	}

	if p.counter != nil {
		n, countErr := p.counter.PageCount(converted.PDFData)
		if countErr != nil {
			p.logger.Warn("failed to read PDF page count", zap.String("id", doc.ID), zap.Error(countErr))
		}
		result.Pages = n
	}

	if p.archive != nil {
		archived, archiveErr := p.archive.Archive(ctx, &infra.ArchiveRequest{
			DocumentID: doc.ID,
			Filename:   result.Filename,
			PDFData:    result.PDF,
		})
		if archiveErr != nil {
			p.logger.Warn("failed to archive PDF", zap.String("id", doc.ID), zap.Error(archiveErr))
		} else {
			result.ArchiveLocation = archived.Location
		}
	}

	result.Duration = time.Since(start)
	outcome = OutcomeSuccess
	pages = result.Pages

	p.logger.Info("PDF exported",
		zap.String("id", doc.ID),
		zap.String("filename", result.Filename),
		zap.Int("bytes", len(result.PDF)),
		zap.Int("pages", result.Pages),
		zap.Int("images_failed", report.Failed),
		zap.Duration("duration", result.Duration))
	return result, nil
}
