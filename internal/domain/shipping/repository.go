package shipping

import "context"

// Repository is the record store for shipping documents.
// There is no update or delete: documents are append-only.
type Repository interface {
	// Create writes the document in a single operation and returns the
	// identifier assigned by the store.
	Create(ctx context.Context, doc *ShippingDocument) (string, error)
	// FindByID returns shared.ErrNotFound when no document has the id.
	FindByID(ctx context.Context, id string) (*ShippingDocument, error)
	// ListByCreatedDesc returns every document, newest first.
	ListByCreatedDesc(ctx context.Context) ([]*ShippingDocument, error)
}
