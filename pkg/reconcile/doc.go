// Package reconcile keeps local plan state consistent with the billing
// provider's truth.
//
// The billing provider is authoritative but imperfect: it can hold
// duplicate active subscriptions after a checkout race, and the local
// record can drift from it (missed webhooks, manual edits, provider
// retries). The Engine heals that drift: it fetches provider state,
// resolves it to a single canonical tier, compares with the local
// record and applies an atomic fix, emitting an audit entry and a user
// notification when the tier actually changed.
//
// # Operations
//
//   - Reconcile: fetch, resolve, compare, fix (per Mode)
//   - HasAccess: grace-period-aware access decision, cooldown-throttled
//   - CleanupDuplicates: cancel non-canonical duplicate subscriptions
//   - Sweep: reconcile all billed accounts with bounded concurrency
//   - ForceSync / ClearCooldown: admin escape hatches
//
// # Consistency model
//
// Across accounts, reconciliation is fully independent. For one
// account, concurrent fixes are last-write-wins with no version check:
// both writers resolve against the same external truth and converge to
// the same value, so a genuine race wastes at most one audit entry.
// The cooldown store is a soft throttle, not a lock; the Engine's
// idempotency absorbs redundant syncs. A fetch failure never mutates
// anything — callers choose between failing open on last-known-good
// state (user-facing checks) and failing loud (the sweeper).
package reconcile
