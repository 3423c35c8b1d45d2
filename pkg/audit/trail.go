package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage persists audit entries. Implementations must treat the
// entries as append-only.
type Storage interface {
	Store(ctx context.Context, entry Entry) error
}

// Trail is the audit sink consumed by the reconciliation engine.
// It stamps IDs, timestamps and the default actor before handing
// entries to storage.
type Trail struct {
	storage Storage
}

// TrailOption configures a Trail.
type TrailOption func(*Trail)

// WithAsyncBuffer wraps the storage in a buffered asynchronous writer
// so that slow storage never blocks reconciliation.
func WithAsyncBuffer(size int) TrailOption {
	return func(t *Trail) {
		if size > 0 {
			t.storage = NewAsyncStorage(t.storage, size)
		}
	}
}

// NewTrail creates an audit trail on top of the given storage.
// Panics if storage is nil to fail fast during initialization.
func NewTrail(storage Storage, opts ...TrailOption) *Trail {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	t := &Trail{storage: storage}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record validates and stores one entry, assigning an ID and timestamp.
// The actor defaults to system-sync when unset.
func (t *Trail) Record(ctx context.Context, entry Entry) error {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()
	if entry.Actor == "" {
		entry.Actor = ActorSystemSync
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	return t.storage.Store(ctx, entry)
}

// Close releases the underlying storage if it is closable (e.g. the
// async writer). Call during shutdown to flush buffered entries.
func (t *Trail) Close(ctx context.Context) error {
	if closer, ok := t.storage.(interface{ Close(context.Context) error }); ok {
		return closer.Close(ctx)
	}
	return nil
}
