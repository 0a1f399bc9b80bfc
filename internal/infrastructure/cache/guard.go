package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultGuardTTL bounds how long a guard may stay held when its holder
	// never releases it.
	DefaultGuardTTL     = 2 * time.Minute
	guardCleanupPeriod  = time.Minute
	defaultGuardKeyBase = "shipdocs:export:"
)

// InMemoryExportGuard lets one export per document run inside this process.
// Suitable for single-instance deployments and testing.
type InMemoryExportGuard struct {
	mu        sync.Mutex
	held      map[string]time.Time // key -> expiresAt
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryExportGuard creates a guard whose entries lapse after ttl.
// It starts a background goroutine that drops lapsed entries.
func NewInMemoryExportGuard(ttl time.Duration) *InMemoryExportGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	g := &InMemoryExportGuard{
		held:     make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupLoop()
	return g
}

// Acquire returns true when key was free (or its previous holder lapsed)
func (g *InMemoryExportGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expiresAt, ok := g.held[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	g.held[key] = now.Add(g.ttl)
	return true, nil
}

// Release frees key. Releasing a free key is a no-op.
func (g *InMemoryExportGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}

// Held reports whether key is currently taken
func (g *InMemoryExportGuard) Held(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	expiresAt, ok := g.held[key]
	return ok && g.now().Before(expiresAt), nil
}

// Size returns the number of entries, lapsed ones included until cleanup
func (g *InMemoryExportGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.held)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (g *InMemoryExportGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

func (g *InMemoryExportGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(guardCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *InMemoryExportGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for key, expiresAt := range g.held {
		if !now.Before(expiresAt) {
			delete(g.held, key)
		}
	}
}
