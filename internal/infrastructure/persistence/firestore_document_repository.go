package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shipdocs/backend/internal/infrastructure/config"
)

const firestoreEmulatorEnv = "FIRESTORE_EMULATOR_HOST"

// NewFirestoreClient creates a Firestore client for the configured project.
// A configured emulator host takes precedence over credentials.
func NewFirestoreClient(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	var opts []option.ClientOption
	if cfg.EmulatorHost != "" {
		// the client library only reads the emulator address from the environment
		if err := os.Setenv(firestoreEmulatorEnv, cfg.EmulatorHost); err != nil {
			return nil, fmt.Errorf("failed to point firestore at the emulator: %w", err)
		}
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	databaseID := cfg.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// FirestoreDocumentRepository keeps each document as one flat Firestore
// document. Cargo lines are an array field of the same document.
type FirestoreDocumentRepository struct {
	collection *firestore.CollectionRef
}

// NewFirestoreDocumentRepository creates a new FirestoreDocumentRepository
func NewFirestoreDocumentRepository(client *firestore.Client) *FirestoreDocumentRepository {
	return &FirestoreDocumentRepository{collection: client.Collection(shipping.CollectionName)}
}

// Create writes the record under an auto-generated id
func (r *FirestoreDocumentRepository) Create(ctx context.Context, doc *shipping.ShippingDocument) (string, error) {
	ref := r.collection.NewDoc()
	if _, err := ref.Set(ctx, doc.Flatten()); err != nil {
		return "", fmt.Errorf("failed to create shipping document: %w", err)
	}
	return ref.ID, nil
}

// FindByID reads one record
func (r *FirestoreDocumentRepository) FindByID(ctx context.Context, id string) (*shipping.ShippingDocument, error) {
	if !validFirestoreID(id) {
		return nil, shared.ErrNotFound
	}

	snap, err := r.collection.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shipping document: %w", err)
	}
	return decodeSnapshot(snap)
}

// ListByCreatedDesc returns every record, newest first
func (r *FirestoreDocumentRepository) ListByCreatedDesc(ctx context.Context) ([]*shipping.ShippingDocument, error) {
	iter := r.collection.OrderBy(shipping.FieldCreatedAt, firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var docs []*shipping.ShippingDocument
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list shipping documents: %w", err)
		}
		doc, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (*shipping.ShippingDocument, error) {
	doc, err := shipping.Unflatten(snap.Ref.ID, snap.Data())
	if err != nil {
		return nil, fmt.Errorf("failed to decode shipping document %s: %w", snap.Ref.ID, err)
	}
	return &doc, nil
}

// validFirestoreID rejects ids Collection.Doc cannot address
func validFirestoreID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.Contains(id, "/")
}

var _ shipping.Repository = (*FirestoreDocumentRepository)(nil)
