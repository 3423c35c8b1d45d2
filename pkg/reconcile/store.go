package reconcile

import "context"

// AccountStore defines the persistence interface for account billing
// records. AccountID is the primary key; each account has exactly one
// record.
type AccountStore interface {
	// Get retrieves a record by account ID.
	// Returns ErrAccountNotFound if no record exists.
	Get(ctx context.Context, accountID string) (*Record, error)

	// Update applies the patch atomically: all fields or none.
	// Concurrent updates for the same account are last-write-wins;
	// both writers reconcile against the same external truth and
	// converge to the same value.
	Update(ctx context.Context, accountID string, patch Patch) error

	// ListBilled returns the IDs of accounts with a billing customer
	// reference, in stable order. A limit of 0 returns all.
	ListBilled(ctx context.Context, limit int) ([]string, error)
}
