package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"go.uber.org/zap"
)

// DocumentService handles shipping document operations
type DocumentService struct {
	repo   shipping.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(repo shipping.Repository, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Create stores a new document in one write. Unset fields get the form
// defaults and both timestamps get the same server time.
func (s *DocumentService) Create(ctx context.Context, doc *shipping.ShippingDocument) (*shipping.ShippingDocument, error) {
	if doc == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "document is required")
	}
	doc.ApplyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	doc.MarkCreated(s.now().UTC())

	id, err := s.repo.Create(ctx, doc)
	if err != nil {
		s.logger.Error("failed to create shipping document",
			zap.String("document_number", doc.DocumentNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	doc.ID = id

	s.logger.Info("shipping document created",
		zap.String("id", id),
		zap.String("document_number", doc.DocumentNumber),
		zap.Int("cargo_items", len(doc.CargoItems)))
	return doc, nil
}

// CreateFromInput converts and creates a document from a request
func (s *DocumentService) CreateFromInput(ctx context.Context, in DocumentInput) (*shipping.ShippingDocument, error) {
	return s.Create(ctx, in.ToDocument())
}

// Get retrieves a document by id
func (s *DocumentService) Get(ctx context.Context, id string) (*shipping.ShippingDocument, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shared.ErrNotFound
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// List returns every document, newest first
func (s *DocumentService) List(ctx context.Context) ([]*shipping.ShippingDocument, error) {
	docs, err := s.repo.ListByCreatedDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
