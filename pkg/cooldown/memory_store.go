package cooldown

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with process-local state. Each process
// instance has its own view of last-sync times, which only affects how
// often redundant reconciliations happen, never correctness.
type MemoryStore struct {
	mu       sync.RWMutex
	lastSync map[string]time.Time

	window time.Duration
	now    func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithWindow overrides the cooldown window.
func WithWindow(window time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if window > 0 {
			ms.window = window
		}
	}
}

// WithCleanupInterval sets how often expired entries are purged.
// Set to 0 to disable the background janitor.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithClock sets the time source. Used by tests to control expiry.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates an in-memory cooldown store with an optional
// background janitor that drops expired entries.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		lastSync:        make(map[string]time.Time),
		window:          DefaultWindow,
		now:             time.Now,
		cleanupInterval: 10 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

func (ms *MemoryStore) ShouldSync(_ context.Context, accountID string) bool {
	ms.mu.RLock()
	last, exists := ms.lastSync[accountID]
	ms.mu.RUnlock()

	return !exists || ms.now().Sub(last) >= ms.window
}

func (ms *MemoryStore) MarkSynced(_ context.Context, accountID string) {
	ms.mu.Lock()
	ms.lastSync[accountID] = ms.now()
	ms.mu.Unlock()
}

func (ms *MemoryStore) Clear(_ context.Context, accountID string) {
	ms.mu.Lock()
	delete(ms.lastSync, accountID)
	ms.mu.Unlock()
}

// Close stops the background janitor. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	ms.stopOnce.Do(func() {
		close(ms.stopCleanup)
	})
}

func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.removeExpired()
		case <-ms.stopCleanup:
			return
		}
	}
}

func (ms *MemoryStore) removeExpired() {
	now := ms.now()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	for accountID, last := range ms.lastSync {
		if now.Sub(last) >= ms.window {
			delete(ms.lastSync, accountID)
		}
	}
}
