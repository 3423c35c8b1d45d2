// Package billing observes and manipulates subscription state held by
// a third-party billing provider.
//
// The provider is the only authoritative source of payment state, and
// it can itself contain inconsistent or duplicate records (e.g. two
// active subscriptions for one customer after a checkout race). This
// package therefore exposes observations, not conclusions: the Fetcher
// returns every subscription for a customer classified by status, in
// provider list order, and leaves picking the canonical one to the
// reconciliation layer.
//
// # Components
//
//   - Provider: minimal interface over the billing provider
//     (list all subscriptions, cancel one subscription)
//   - Fetcher: classifies snapshots into active-like / past-due / ended
//     buckets and resolves price IDs to tiers, degrading unmappable
//     prices to the free tier instead of failing the fetch
//   - PaddleProvider: Provider implementation on the official Paddle SDK
//
// # Error semantics
//
// Transient failures (network, rate limit, timeout) wrap
// ErrProviderUnavailable; use IsTransient to decide between retrying,
// skipping, or failing open on last-known-good local state. A fetch
// never partially succeeds: callers get either a fully classified
// State or an error.
package billing
