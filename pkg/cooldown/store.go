package cooldown

import (
	"context"
	"time"
)

// DefaultWindow is the minimum interval between reconciliation attempts
// for one account unless overridden.
const DefaultWindow = 5 * time.Minute

// Store is the per-account reconciliation throttle. It is a soft
// throttle, not a lock: concurrent callers may both decide to sync if
// they race within the same instant, and the reconciliation engine's
// idempotency absorbs the redundancy. A Store holds no
// correctness-critical data and may be cleared at any time; losing
// entries only causes extra (safe) re-fetches.
type Store interface {
	// ShouldSync reports whether the account's cooldown has expired
	// (or no attempt was ever recorded). Implementations must fail
	// open: if the backing store is unreachable, return true and let
	// the engine do redundant work rather than serve stale state.
	ShouldSync(ctx context.Context, accountID string) bool

	// MarkSynced records a reconciliation attempt at the current time,
	// regardless of the attempt's outcome.
	MarkSynced(ctx context.Context, accountID string)

	// Clear removes the account's entry so the next check syncs
	// immediately. Used by admin-triggered force syncs.
	Clear(ctx context.Context, accountID string)
}
