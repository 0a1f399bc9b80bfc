package printing

import (
	"context"

	"github.com/shipdocs/backend/internal/domain/printing"
	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/domain/shipping"
	infra "github.com/shipdocs/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// DocumentFinder loads stored documents
type DocumentFinder interface {
	Get(ctx context.Context, id string) (*shipping.ShippingDocument, error)
}

// DocumentRenderer turns a resolved view into HTML
type DocumentRenderer interface {
	RenderDocumentBytes(view *infra.DocumentView) ([]byte, error)
}

// RenderService renders the screen, print and export presentations of stored documents
type RenderService struct {
	docs     DocumentFinder
	renderer DocumentRenderer
	options  infra.ViewOptions
	logger   *zap.Logger
}

// NewRenderService creates a new RenderService. options carries the deployment
// settings (public URL, QR endpoint, logo) applied to every page.
func NewRenderService(docs DocumentFinder, renderer DocumentRenderer, options infra.ViewOptions, logger *zap.Logger) *RenderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RenderService{
		docs:     docs,
		renderer: renderer,
		options:  options,
		logger:   logger,
	}
}

// Render loads the document and renders the requested presentation
func (s *RenderService) Render(ctx context.Context, req RenderRequest) (*RenderResponse, error) {
	if !req.Variant.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown presentation: "+string(req.Variant))
	}

	doc, err := s.docs.Get(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	html, err := s.RenderDocument(doc, req.Variant, req.Interactive, req.Busy)
	if err != nil {
		return nil, err
	}

	resp := &RenderResponse{Document: doc, HTML: html}
	if req.Variant == printing.VariantPrint {
		resp.Filename = PrintFilename(doc)
	}
	return resp, nil
}

// RenderDocument renders an already loaded document. Rendering is pure: the
// same document and flags always give the same bytes.
func (s *RenderService) RenderDocument(doc *shipping.ShippingDocument, variant printing.Variant, interactive, busy bool) ([]byte, error) {
	opts := s.options
	opts.Interactive = interactive
	opts.Busy = busy

	html, err := s.renderer.RenderDocumentBytes(infra.NewDocumentView(doc, variant, opts))
	if err != nil {
		s.logger.Error("failed to render document",
			zap.String("id", doc.ID),
			zap.String("variant", string(variant)),
			zap.Error(err))
		return nil, err
	}
	return html, nil
}
