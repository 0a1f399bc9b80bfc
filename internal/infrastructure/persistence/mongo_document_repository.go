package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shipdocs/backend/internal/infrastructure/config"
)

const defaultMongoConnectTimeout = 10 * time.Second

// NewMongoClient connects to MongoDB and pings the primary.
// Nested documents decode as bson.M so records keep their flat map shape.
func NewMongoClient(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultMongoConnectTimeout
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// MongoDocumentRepository keeps each document as one flat BSON document keyed by ObjectID
type MongoDocumentRepository struct {
	collection *mongo.Collection
}

// NewMongoDocumentRepository creates a new MongoDocumentRepository
func NewMongoDocumentRepository(db *mongo.Database) *MongoDocumentRepository {
	return &MongoDocumentRepository{collection: db.Collection(shipping.CollectionName)}
}

// EnsureIndexes creates the index backing the newest-first listing
func (r *MongoDocumentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: shipping.FieldCreatedAt, Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create shipping document indexes: %w", err)
	}
	return nil
}

// Create inserts the record under a new ObjectID
func (r *MongoDocumentRepository) Create(ctx context.Context, doc *shipping.ShippingDocument) (string, error) {
	id := primitive.NewObjectID()
	record := doc.Flatten()
	record["_id"] = id

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create shipping document: %w", err)
	}
	return id.Hex(), nil
}

// FindByID reads one record. Ids that are not ObjectID hex strings are never found.
func (r *MongoDocumentRepository) FindByID(ctx context.Context, id string) (*shipping.ShippingDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	var record bson.M
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shipping document: %w", err)
	}
	return decodeMongoRecord(record)
}

// ListByCreatedDesc returns every record, newest first
func (r *MongoDocumentRepository) ListByCreatedDesc(ctx context.Context) ([]*shipping.ShippingDocument, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: shipping.FieldCreatedAt, Value: -1},
		{Key: "_id", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping documents: %w", err)
	}
	defer cursor.Close(ctx)

	var records []bson.M
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode shipping documents: %w", err)
	}

	docs := make([]*shipping.ShippingDocument, 0, len(records))
	for _, record := range records {
		doc, err := decodeMongoRecord(record)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func decodeMongoRecord(record bson.M) (*shipping.ShippingDocument, error) {
	var id string
	switch v := record["_id"].(type) {
	case primitive.ObjectID:
		id = v.Hex()
	case string:
		id = v
	}
	delete(record, "_id")

	doc, err := shipping.Unflatten(id, record)
	if err != nil {
		return nil, fmt.Errorf("failed to decode shipping document %s: %w", id, err)
	}
	return &doc, nil
}

var _ shipping.Repository = (*MongoDocumentRepository)(nil)
