package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shipdocs/backend/internal/infrastructure/persistence/models"
)

// GormDocumentRepository stores documents in postgres
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Create inserts the document and its cargo lines in one transaction
func (r *GormDocumentRepository) Create(ctx context.Context, doc *shipping.ShippingDocument) (string, error) {
	id := uuid.New()
	model := &models.ShippingDocumentModel{}
	model.FromDomain(id, doc)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to create shipping document: %w", err)
	}
	return id.String(), nil
}

// FindByID loads one document with its cargo lines in entry order
func (r *GormDocumentRepository) FindByID(ctx context.Context, id string) (*shipping.ShippingDocument, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		// not an id this store could have issued
		return nil, shared.ErrNotFound
	}

	var model models.ShippingDocumentModel
	err = r.db.WithContext(ctx).
		Preload("CargoItems", orderByPosition).
		Where("id = ?", key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shipping document: %w", err)
	}
	return model.ToDomain(), nil
}

// ListByCreatedDesc returns every document, newest first
func (r *GormDocumentRepository) ListByCreatedDesc(ctx context.Context) ([]*shipping.ShippingDocument, error) {
	var rows []models.ShippingDocumentModel
	err := r.db.WithContext(ctx).
		Preload("CargoItems", orderByPosition).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping documents: %w", err)
	}

	docs := make([]*shipping.ShippingDocument, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].ToDomain())
	}
	return docs, nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

var _ shipping.Repository = (*GormDocumentRepository)(nil)
