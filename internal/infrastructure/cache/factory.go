package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shipdocs/backend/internal/infrastructure/config"
)

// Guard is the export guard contract shared by both implementations
type Guard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
	Held(ctx context.Context, key string) (bool, error)
}

var (
	_ Guard = (*InMemoryExportGuard)(nil)
	_ Guard = (*RedisExportGuard)(nil)
)

// Factory builds guards and document caches from configuration. A single
// Redis client is shared by everything it creates.
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	dial                  func(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error)

	client  redis.UniversalClient
	closers []func() error
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and what it builds
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory variants
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithRedisClient uses an existing client instead of dialing one
func WithRedisClient(client redis.UniversalClient) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		dial:                  dialRedis,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func dialRedis(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (f *Factory) redisClient(ctx context.Context) (redis.UniversalClient, error) {
	if f.client != nil {
		return f.client, nil
	}
	client, err := f.dial(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	f.client = client
	f.closers = append(f.closers, client.Close)
	return client, nil
}

// CreateGuard returns the export guard for driver ("memory" or "redis")
func (f *Factory) CreateGuard(ctx context.Context, driver string, ttl time.Duration) (Guard, error) {
	if driver == config.GuardRedis {
		client, err := f.redisClient(ctx)
		if err == nil {
			f.logger.Info("using Redis export guard")
			return NewRedisExportGuard(client, "", ttl), nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for export guard but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory export guard. "+
			"Exports are only serialized per instance.", zap.Error(err))
	}

	guard := NewInMemoryExportGuard(ttl)
	f.closers = append(f.closers, guard.Close)
	return guard, nil
}

// CreateDocumentCache returns the document cache for driver ("memory" or "redis")
func (f *Factory) CreateDocumentCache(ctx context.Context, driver string, ttl time.Duration) (DocumentCache, error) {
	if driver == config.GuardRedis {
		client, err := f.redisClient(ctx)
		if err == nil {
			f.logger.Info("using Redis document cache")
			return NewRedisDocumentCache(client, "", ttl, f.logger), nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for document cache but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory document cache", zap.Error(err))
	}

	c := NewInMemoryDocumentCache(ttl, f.logger)
	f.closers = append(f.closers, c.Close)
	return c, nil
}

// Close releases everything the factory created
func (f *Factory) Close() error {
	var firstErr error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
