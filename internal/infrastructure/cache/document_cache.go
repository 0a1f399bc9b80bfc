package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shipdocs/backend/internal/domain/shipping"
)

const (
	// DefaultDocumentTTL applies when a cache is created with a zero TTL
	DefaultDocumentTTL     = 10 * time.Minute
	defaultCleanupInterval = 30 * time.Second
	defaultDocumentKeyBase = "shipdocs:document:"
)

// DocumentCache keeps recently read documents. A miss is never an error.
type DocumentCache interface {
	Get(ctx context.Context, id string) (*shipping.ShippingDocument, bool)
	Set(ctx context.Context, doc *shipping.ShippingDocument)
	Delete(ctx context.Context, id string)
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryDocumentCache is a process-local DocumentCache
type InMemoryDocumentCache struct {
	entries sync.Map // map[string]*cacheEntry[shipping.ShippingDocument]
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

// NewInMemoryDocumentCache creates the cache and starts its cleanup goroutine
func NewInMemoryDocumentCache(ttl time.Duration, logger *zap.Logger) *InMemoryDocumentCache {
	if ttl <= 0 {
		ttl = DefaultDocumentTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &InMemoryDocumentCache{ttl: ttl, logger: logger, stopCh: make(chan struct{})}
	go c.cleanupExpired()
	return c
}

// Get returns a copy of the cached document
func (c *InMemoryDocumentCache) Get(_ context.Context, id string) (*shipping.ShippingDocument, bool) {
	v, ok := c.entries.Load(id)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	entry := v.(*cacheEntry[shipping.ShippingDocument])
	if entry.isExpired() {
		c.entries.Delete(id)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return cloneDocument(entry.value), true
}

// Set stores a copy of doc under its id
func (c *InMemoryDocumentCache) Set(_ context.Context, doc *shipping.ShippingDocument) {
	if doc == nil || doc.ID == "" {
		return
	}
	c.entries.Store(doc.ID, &cacheEntry[shipping.ShippingDocument]{
		value:     cloneDocument(doc),
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Delete drops id
func (c *InMemoryDocumentCache) Delete(_ context.Context, id string) {
	c.entries.Delete(id)
}

// GetStats returns cache hit/miss counters
func (c *InMemoryDocumentCache) GetStats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cleanup goroutine
func (c *InMemoryDocumentCache) Close() error {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryDocumentCache) cleanupExpired() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("document cache cleanup panicked", zap.Any("panic", r))
		}
	}()

	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*cacheEntry[shipping.ShippingDocument]).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

// cloneDocument copies the pointer and slice fields so callers cannot mutate
// the cached value
func cloneDocument(doc *shipping.ShippingDocument) *shipping.ShippingDocument {
	out := *doc
	if doc.IsNegotiable != nil {
		out.IsNegotiable = shipping.BoolPtr(*doc.IsNegotiable)
	}
	if doc.Truck.Axles != nil {
		out.Truck.Axles = shipping.IntPtr(*doc.Truck.Axles)
	}
	if doc.CargoItems != nil {
		out.CargoItems = append([]shipping.CargoItem(nil), doc.CargoItems...)
	}
	return &out
}

// RedisDocumentCache stores documents as JSON records in Redis
type RedisDocumentCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisDocumentCache creates a cache on an existing client
func NewRedisDocumentCache(client redis.UniversalClient, keyPrefix string, ttl time.Duration, logger *zap.Logger) *RedisDocumentCache {
	if keyPrefix == "" {
		keyPrefix = defaultDocumentKeyBase
	}
	if ttl <= 0 {
		ttl = DefaultDocumentTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDocumentCache{client: client, keyPrefix: keyPrefix, ttl: ttl, logger: logger}
}

// Get reads id; Redis failures are logged and treated as a miss
func (c *RedisDocumentCache) Get(ctx context.Context, id string) (*shipping.ShippingDocument, bool) {
	data, err := c.client.Get(ctx, c.keyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("document cache read failed", zap.String("id", id), zap.Error(err))
		}
		return nil, false
	}
	var doc shipping.ShippingDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("dropping undecodable cache entry", zap.String("id", id), zap.Error(err))
		c.Delete(ctx, id)
		return nil, false
	}
	return &doc, true
}

// Set writes doc with the cache TTL
func (c *RedisDocumentCache) Set(ctx context.Context, doc *shipping.ShippingDocument) {
	if doc == nil || doc.ID == "" {
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn("document cache encode failed", zap.String("id", doc.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+doc.ID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("document cache write failed", zap.String("id", doc.ID), zap.Error(err))
	}
}

// Delete drops id
func (c *RedisDocumentCache) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.keyPrefix+id).Err(); err != nil {
		c.logger.Warn("document cache delete failed", zap.String("id", id), zap.Error(err))
	}
}

// CachedRepository reads documents through a DocumentCache. Listing always
// goes to the store.
type CachedRepository struct {
	shipping.Repository
	cache DocumentCache
}

// NewCachedRepository decorates repo with cache
func NewCachedRepository(repo shipping.Repository, cache DocumentCache) *CachedRepository {
	return &CachedRepository{Repository: repo, cache: cache}
}

// Create writes through to the store and primes the cache
func (r *CachedRepository) Create(ctx context.Context, doc *shipping.ShippingDocument) (string, error) {
	id, err := r.Repository.Create(ctx, doc)
	if err != nil {
		return "", err
	}
	stored := cloneDocument(doc)
	stored.ID = id
	r.cache.Set(ctx, stored)
	return id, nil
}

// FindByID serves from the cache and falls back to the store
func (r *CachedRepository) FindByID(ctx context.Context, id string) (*shipping.ShippingDocument, error) {
	if doc, ok := r.cache.Get(ctx, id); ok {
		return doc, nil
	}
	doc, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, doc)
	return doc, nil
}

var (
	_ DocumentCache       = (*InMemoryDocumentCache)(nil)
	_ DocumentCache       = (*RedisDocumentCache)(nil)
	_ shipping.Repository = (*CachedRepository)(nil)
)
