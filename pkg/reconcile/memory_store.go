package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/plankit/plankit/pkg/plan"
)

// MemoryStore implements AccountStore in memory. Intended for tests and
// local development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Put inserts or replaces a record. Used for seeding.
func (ms *MemoryStore) Put(rec Record) {
	ms.mu.Lock()
	ms.records[rec.AccountID] = rec
	ms.mu.Unlock()
}

// CreateFree provisions a new account on the free tier with no billing
// references, matching the record lifecycle at account creation.
func (ms *MemoryStore) CreateFree(_ context.Context, accountID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.records[accountID]; !exists {
		ms.records[accountID] = Record{
			AccountID: accountID,
			Plan:      plan.TierFree,
			Status:    RecordCanceled,
			UpdatedAt: time.Now().UTC(),
		}
	}
	return nil
}

func (ms *MemoryStore) Get(_ context.Context, accountID string) (*Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	rec, exists := ms.records[accountID]
	if !exists {
		return nil, ErrAccountNotFound
	}
	out := rec
	return &out, nil
}

func (ms *MemoryStore) Update(_ context.Context, accountID string, patch Patch) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec, exists := ms.records[accountID]
	if !exists {
		return ErrAccountNotFound
	}

	rec.Plan = patch.Plan
	rec.Status = patch.Status
	rec.SubscriptionID = patch.SubscriptionID
	rec.PriceID = patch.PriceID
	rec.PeriodEnd = patch.PeriodEnd
	rec.UpdatedAt = time.Now().UTC()
	ms.records[accountID] = rec
	return nil
}

func (ms *MemoryStore) ListBilled(_ context.Context, limit int) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var ids []string
	for id, rec := range ms.records {
		if rec.CustomerID != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
