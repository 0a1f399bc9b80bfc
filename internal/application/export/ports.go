package export

import (
	"context"
	"time"

	"github.com/shipdocs/backend/internal/domain/printing"
	"github.com/shipdocs/backend/internal/domain/shipping"
	infra "github.com/shipdocs/backend/internal/infrastructure/printing"
)

// Guard lets at most one export per document run at a time
type Guard interface {
	// Acquire returns false when an export for key is already running
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
	// Held reports whether an export for key is running right now
	Held(ctx context.Context, key string) (bool, error)
}

// DocumentSource loads stored documents
type DocumentSource interface {
	Get(ctx context.Context, id string) (*shipping.ShippingDocument, error)
}

// PageRenderer renders one presentation of a document
type PageRenderer interface {
	RenderDocument(doc *shipping.ShippingDocument, variant printing.Variant, interactive, busy bool) ([]byte, error)
}

// Barrier waits until every image of a page has settled
type Barrier interface {
	Settle(ctx context.Context, page []byte) ([]byte, infra.SettleReport, error)
}

// Archive keeps a copy of every produced PDF
type Archive interface {
	Archive(ctx context.Context, req *infra.ArchiveRequest) (*infra.ArchiveResult, error)
}

// PageCounter reads the page count of a PDF
type PageCounter interface {
	PageCount(pdf []byte) (int, error)
}

// Recorder receives export measurements
type Recorder interface {
	RecordExport(ctx context.Context, outcome string, duration time.Duration, pages int)
	RecordImages(ctx context.Context, report infra.SettleReport)
}

// Export outcomes reported to the Recorder
const (
	OutcomeSuccess  = "success"
	OutcomeBusy     = "busy"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

type nopRecorder struct{}

func (nopRecorder) RecordExport(context.Context, string, time.Duration, int) {}
func (nopRecorder) RecordImages(context.Context, infra.SettleReport)         {}
