package audit

import (
	"context"
	"sync"
)

// MemoryStorage keeps entries in memory. Intended for tests and local
// development; production deployments should use MongoStorage or a
// comparable durable backend.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (ms *MemoryStorage) Store(_ context.Context, entry Entry) error {
	ms.mu.Lock()
	ms.entries = append(ms.entries, entry)
	ms.mu.Unlock()
	return nil
}

// Entries returns a copy of all stored entries in insertion order.
func (ms *MemoryStorage) Entries() []Entry {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]Entry, len(ms.entries))
	copy(out, ms.entries)
	return out
}

// ByAccount returns all entries for one account in insertion order.
func (ms *MemoryStorage) ByAccount(accountID string) []Entry {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var out []Entry
	for _, e := range ms.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out
}
