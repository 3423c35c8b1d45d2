package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plankit/plankit/pkg/audit"
	"github.com/plankit/plankit/pkg/billing"
	"github.com/plankit/plankit/pkg/cooldown"
	"github.com/plankit/plankit/pkg/logger"
	"github.com/plankit/plankit/pkg/notify"
	"github.com/plankit/plankit/pkg/plan"
)

// Engine reconciles local account billing records against the billing
// provider's state. It is the only component that mutates records, and
// every mutation is a single atomic patch.
type Engine struct {
	store        AccountStore
	provider     billing.Provider
	fetcher      *billing.Fetcher
	cooldown     cooldown.Store
	trail        *audit.Trail
	notifier     notify.Notifier
	log          *slog.Logger
	now          func() time.Time
	autoCleanup  bool
	fetchTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithCooldown sets the sync throttle store. Defaults to a per-process
// in-memory store with the standard window.
func WithCooldown(store cooldown.Store) Option {
	return func(e *Engine) {
		if store != nil {
			e.cooldown = store
		}
	}
}

// WithAuditTrail enables audit entries for applied fixes and duplicate
// cancellations. Without a trail the engine only logs.
func WithAuditTrail(trail *audit.Trail) Option {
	return func(e *Engine) {
		e.trail = trail
	}
}

// WithNotifier sets the user notification sink. Defaults to discarding.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithAutoCleanup makes the engine cancel duplicate subscriptions
// right after applying a fix. Off by default so plan correctness never
// waits on provider cancel calls.
func WithAutoCleanup() Option {
	return func(e *Engine) {
		e.autoCleanup = true
	}
}

// WithFetchTimeout bounds each provider call made by the engine.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// WithClock sets the time source. Used by tests to control grace-period
// expiry.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a reconciliation engine. The store, provider and
// price table are required; panics on nil to fail fast during
// initialization.
func NewEngine(store AccountStore, provider billing.Provider, prices plan.PriceMap, opts ...Option) *Engine {
	if store == nil {
		panic("reconcile: AccountStore is required")
	}
	if provider == nil {
		panic("reconcile: billing.Provider is required")
	}
	if len(prices) == 0 {
		panic("reconcile: price table is required")
	}

	e := &Engine{
		store:    store,
		provider: provider,
		notifier: notify.NoopNotifier{},
		log:      slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cooldown == nil {
		e.cooldown = cooldown.NewMemoryStore(cooldown.WithCleanupInterval(0))
	}

	fetcherOpts := []billing.FetcherOption{billing.WithFetcherLogger(e.log)}
	if e.fetchTimeout > 0 {
		fetcherOpts = append(fetcherOpts, billing.WithFetchTimeout(e.fetchTimeout))
	}
	e.fetcher = billing.NewFetcher(provider, prices, fetcherOpts...)

	return e
}

// Reconcile fetches the provider's state for one account, resolves it
// to a canonical tier and heals the local record according to mode.
//
// Re-running immediately after a successful fix with unchanged external
// state returns InSync=true, Fixed=false and emits nothing: the engine
// is idempotent. A fetch failure propagates with zero mutation; callers
// decide between failing open on last-known-good state or failing loud.
func (e *Engine) Reconcile(ctx context.Context, accountID string, mode Mode) (*Result, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}

	rec, err := e.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Record the attempt before its outcome is known; the cooldown
	// throttles attempts, not successes.
	e.cooldown.MarkSynced(ctx, accountID)

	if !rec.HasBilling() {
		return e.reconcileUnbilled(ctx, rec, mode)
	}

	state, err := e.fetcher.Fetch(ctx, rec.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for account %s: %w", accountID, err)
	}

	res := Resolve(state)

	if inSync(rec, res, e.now().UTC()) {
		return &Result{
			InSync:       true,
			PreviousTier: rec.Plan,
			CurrentTier:  rec.Plan,
		}, nil
	}

	if !mode.Mutate {
		return &Result{
			PreviousTier: rec.Plan,
			CurrentTier:  res.Tier,
			Message: fmt.Sprintf("drift detected: local %s/%s (sub %s), resolved %s/%s (sub %s)",
				rec.Plan, rec.Status, rec.SubscriptionID, res.Tier, res.Status, res.CanonicalID),
		}, nil
	}

	patch := Patch{
		Plan:           res.Tier,
		Status:         res.Status,
		SubscriptionID: res.CanonicalID,
		PriceID:        res.PriceID,
		PeriodEnd:      res.PeriodEnd,
	}
	if err := e.store.Update(ctx, accountID, patch); err != nil {
		return nil, fmt.Errorf("failed to apply fix for account %s: %w", accountID, err)
	}

	e.emitFix(ctx, rec, res, mode)

	if e.autoCleanup && res.HasDuplicates() {
		// Best-effort: duplicate cleanup failures never surface here,
		// plan correctness is already durable.
		if _, err := e.cancelDuplicates(ctx, rec.AccountID, rec.CustomerID, res); err != nil {
			e.log.LogAttrs(ctx, slog.LevelWarn, "duplicate cleanup after fix failed",
				logger.AccountID(accountID),
				logger.Error(err),
			)
		}
	}

	return &Result{
		Fixed:        true,
		PreviousTier: rec.Plan,
		CurrentTier:  res.Tier,
		Message:      fmt.Sprintf("fixed: %s/%s -> %s/%s", rec.Plan, rec.Status, res.Tier, res.Status),
	}, nil
}

// SyncIfStale runs Reconcile only when the account's cooldown has
// expired. Within the window it returns a skipped result without
// touching the provider.
func (e *Engine) SyncIfStale(ctx context.Context, accountID string, mode Mode) (*Result, error) {
	if !e.cooldown.ShouldSync(ctx, accountID) {
		return &Result{InSync: true, Skipped: true, Message: "cooldown active"}, nil
	}
	return e.Reconcile(ctx, accountID, mode)
}

// ForceSync bypasses the cooldown and reconciles with full output.
// Used by admin tooling.
func (e *Engine) ForceSync(ctx context.Context, accountID string) (*Result, error) {
	e.cooldown.Clear(ctx, accountID)
	return e.Reconcile(ctx, accountID, ModeFix)
}

// ClearCooldown drops the account's throttle entry so the next check
// syncs immediately.
func (e *Engine) ClearCooldown(ctx context.Context, accountID string) {
	e.cooldown.Clear(ctx, accountID)
}

// reconcileUnbilled handles accounts that never entered billing: any
// non-free plan on such a record is local drift (e.g. manually
// corrupted data) and heals to free.
func (e *Engine) reconcileUnbilled(ctx context.Context, rec *Record, mode Mode) (*Result, error) {
	if rec.Plan == plan.TierFree {
		return &Result{
			InSync:       true,
			PreviousTier: plan.TierFree,
			CurrentTier:  plan.TierFree,
		}, nil
	}

	if !mode.Mutate {
		return &Result{
			PreviousTier: rec.Plan,
			CurrentTier:  plan.TierFree,
			Message:      fmt.Sprintf("drift detected: plan %s without billing customer", rec.Plan),
		}, nil
	}

	patch := Patch{Plan: plan.TierFree, Status: RecordCanceled}
	if err := e.store.Update(ctx, rec.AccountID, patch); err != nil {
		return nil, fmt.Errorf("failed to reset unbilled account %s: %w", rec.AccountID, err)
	}

	e.emitFix(ctx, rec, Resolution{Tier: plan.TierFree, Status: RecordCanceled}, mode)

	return &Result{
		Fixed:        true,
		PreviousTier: rec.Plan,
		CurrentTier:  plan.TierFree,
		Message:      "reset to free: no billing customer on record",
	}, nil
}

// emitFix writes the audit entry and user notification for an applied
// fix. Only tier changes produce output; a status-only transition
// (e.g. active to past_due at the same tier) is logged and nothing
// else. Both sinks are best-effort.
func (e *Engine) emitFix(ctx context.Context, before *Record, res Resolution, mode Mode) {
	tierChanged := res.Tier.Rank() != before.Plan.Rank()

	e.log.LogAttrs(ctx, slog.LevelInfo, "reconciliation fix applied",
		logger.AccountID(before.AccountID),
		slog.String("from_tier", string(before.Plan)),
		slog.String("to_tier", string(res.Tier)),
		slog.String("to_status", string(res.Status)),
		slog.Bool("had_duplicates", res.HasDuplicates()),
	)

	if !tierChanged {
		return
	}

	if mode.EmitAudit && e.trail != nil {
		action := audit.ActionPlanUpgrade
		if res.Tier.Rank() < before.Plan.Rank() {
			action = audit.ActionPlanDowngrade
		}

		err := e.trail.Record(ctx, audit.Entry{
			Action:    action,
			AccountID: before.AccountID,
			FromTier:  before.Plan,
			ToTier:    res.Tier,
			Reason:    "reconciliation against billing provider",
			Details: map[string]any{
				"canonical_subscription": res.CanonicalID,
				"had_duplicates":         res.HasDuplicates(),
			},
		})
		if err != nil {
			e.log.LogAttrs(ctx, slog.LevelWarn, "failed to record audit entry",
				logger.AccountID(before.AccountID),
				logger.Error(err),
			)
		}
	}

	if mode.EmitNotification {
		err := e.notifier.Notify(ctx, notify.PlanChange{
			AccountID:  before.AccountID,
			From:       before.Plan,
			To:         res.Tier,
			OccurredAt: e.now().UTC(),
		})
		if err != nil {
			e.log.LogAttrs(ctx, slog.LevelWarn, "failed to deliver plan change notification",
				logger.AccountID(before.AccountID),
				logger.Error(err),
			)
		}
	}
}

// inSync reports whether the local record already reflects the
// resolution. A local canceling status is compatible with a resolved
// active one only while the grace period runs: a cancel scheduled for
// period end still shows as active at the provider, and the grace
// period is a local fact. Past the period end the provider showing
// active means the cancel was revoked or never took effect, and the
// record must heal back to active.
func inSync(rec *Record, res Resolution, now time.Time) bool {
	if rec.Plan != res.Tier || rec.SubscriptionID != res.CanonicalID {
		return false
	}
	if rec.Status == res.Status {
		return true
	}
	return rec.Status == RecordCanceling && res.Status == RecordActive &&
		rec.PeriodEnd != nil && now.Before(*rec.PeriodEnd)
}
