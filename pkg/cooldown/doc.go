// Package cooldown throttles how often reconciliation runs per account.
//
// The store answers one question, "has this account synced recently",
// and records attempts. It is intentionally a soft throttle rather than
// a lock: the reconciliation engine is idempotent, so two callers
// racing past the same expired cooldown waste one provider fetch at
// worst. Because entries are advisory, every implementation fails open
// when its backing store misbehaves.
//
// MemoryStore is per-process; RedisStore shares the view across
// instances for multi-instance deployments. Both are drop-in: the
// engine only sees the Store interface.
package cooldown
