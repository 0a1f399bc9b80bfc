package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose entry lapsed cannot free somebody else's export.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisExportGuard shares the one-export-per-document rule across instances
type RedisExportGuard struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisExportGuard creates a guard on an existing client.
// An empty keyPrefix uses "shipdocs:export:".
func NewRedisExportGuard(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisExportGuard {
	if keyPrefix == "" {
		keyPrefix = defaultGuardKeyBase
	}
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &RedisExportGuard{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		tokens:    make(map[string]string),
	}
}

// Acquire uses SET NX with the guard TTL so a crashed holder cannot block
// a document forever
func (g *RedisExportGuard) Acquire(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.keyPrefix+key, token, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire export guard: %w", err)
	}
	if !ok {
		return false, nil
	}

	g.mu.Lock()
	g.tokens[key] = token
	g.mu.Unlock()
	return true, nil
}

// Release frees key if this instance still holds it
func (g *RedisExportGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	token, ok := g.tokens[key]
	delete(g.tokens, key)
	g.mu.Unlock()
	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, g.client, []string{g.keyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release export guard: %w", err)
	}
	return nil
}

// Held reports whether any instance currently holds key
func (g *RedisExportGuard) Held(ctx context.Context, key string) (bool, error) {
	n, err := g.client.Exists(ctx, g.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check export guard: %w", err)
	}
	return n > 0, nil
}
