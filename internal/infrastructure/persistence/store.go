package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shipdocs/backend/internal/infrastructure/config"
)

// Store is the record store selected by configuration
type Store struct {
	Driver     string
	Repository shipping.Repository

	ping  func(ctx context.Context) error
	close func() error
}

// StoreOptions carries the ambient settings a store backend may use
type StoreOptions struct {
	Logger   *zap.Logger
	LogLevel string
	Tracing  bool
}

// OpenStore connects to the configured record store
func OpenStore(ctx context.Context, cfg config.StoreConfig, opts StoreOptions) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	switch cfg.Driver {
	case config.StoreFirestore:
		client, err := NewFirestoreClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, err
		}
		repo := NewFirestoreDocumentRepository(client)
		log.Info("Record store ready",
			zap.String("driver", cfg.Driver),
			zap.String("project_id", cfg.Firestore.ProjectID))
		return &Store{
			Driver:     cfg.Driver,
			Repository: repo,
			ping: func(ctx context.Context) error {
				_, err := repo.collection.Limit(1).Documents(ctx).GetAll()
				return err
			},
			close: client.Close,
		}, nil

	case config.StoreMongo:
		client, err := NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		repo := NewMongoDocumentRepository(client.Database(cfg.Mongo.Database))
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn("Failed to ensure mongodb indexes", zap.Error(err))
		}
		log.Info("Record store ready",
			zap.String("driver", cfg.Driver),
			zap.String("database", cfg.Mongo.Database))
		return &Store{
			Driver:     cfg.Driver,
			Repository: repo,
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			close: func() error {
				return client.Disconnect(context.Background())
			},
		}, nil

	case config.StorePostgres:
		db, err := NewDatabase(&cfg.Database,
			WithDatabaseLogger(log, opts.LogLevel),
			WithTracing(opts.Tracing))
		if err != nil {
			return nil, err
		}
		log.Info("Record store ready",
			zap.String("driver", cfg.Driver),
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.DBName))
		return NewGormStore(db), nil

	default:
		return nil, fmt.Errorf("unknown record store driver %q", cfg.Driver)
	}
}

// NewGormStore wraps an open gorm database as a Store
func NewGormStore(db *Database) *Store {
	return &Store{
		Driver:     config.StorePostgres,
		Repository: NewGormDocumentRepository(db.DB),
		ping:       db.Ping,
		close:      db.Close,
	}
}

// Ping checks that the backend answers
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
