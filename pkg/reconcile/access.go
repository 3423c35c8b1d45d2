package reconcile

import (
	"context"
	"log/slog"

	"github.com/plankit/plankit/pkg/billing"
	"github.com/plankit/plankit/pkg/logger"
	"github.com/plankit/plankit/pkg/plan"
)

// HasAccess answers "does this account currently have access to the
// required tier", accounting for pending cancellations.
//
// The check reads the local record, refreshing it via a silent
// reconcile only when the cooldown has expired, so it is safe to call
// on every request: at most one provider fetch happens per cooldown
// window. A transient provider failure fails open on the last-known
// local state — the user is not punished for a billing-provider outage.
//
// A canceling account keeps its paid tier until the period end (the
// user paid through it). Past the period end the gate forces a fresh
// reconciliation; if the provider still cannot confirm, this one check
// fails closed to free rather than blocking on retries.
func (e *Engine) HasAccess(ctx context.Context, accountID string, required plan.Tier) (*Access, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}

	if _, err := e.SyncIfStale(ctx, accountID, ModeFixSilent); err != nil {
		// Terminal errors (unknown account, store failures) propagate;
		// only provider outages fail open.
		if !billing.IsTransient(err) {
			return nil, err
		}
		e.log.LogAttrs(ctx, slog.LevelWarn, "refresh failed, using last known state",
			logger.AccountID(accountID),
			logger.Error(err),
		)
	}

	rec, err := e.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if rec.Status == RecordCanceling {
		return e.cancelingAccess(ctx, rec, required)
	}

	return &Access{
		Allowed:     rec.Plan.Rank() >= required.Rank(),
		CurrentTier: rec.Plan,
		PeriodEnd:   rec.PeriodEnd,
	}, nil
}

// cancelingAccess applies the grace-period policy to a record with a
// pending cancellation.
func (e *Engine) cancelingAccess(ctx context.Context, rec *Record, required plan.Tier) (*Access, error) {
	now := e.now().UTC()

	// Paid through period end: access stays at the stored plan.
	if rec.PeriodEnd != nil && now.Before(*rec.PeriodEnd) {
		return &Access{
			Allowed:     rec.Plan.Rank() >= required.Rank(),
			CurrentTier: rec.Plan,
			IsCanceling: true,
			PeriodEnd:   rec.PeriodEnd,
		}, nil
	}

	// Grace period over: the provider should by now show the
	// subscription as canceled, so force a fresh look (bypassing the
	// cooldown). If it still cannot confirm, fail closed to free for
	// this check only instead of retrying indefinitely.
	e.cooldown.Clear(ctx, rec.AccountID)
	if _, err := e.Reconcile(ctx, rec.AccountID, ModeFixSilent); err != nil {
		e.log.LogAttrs(ctx, slog.LevelWarn, "grace period expired but provider unreachable, failing closed",
			logger.AccountID(rec.AccountID),
			logger.Error(err),
		)
		return &Access{
			Allowed:     plan.TierFree.Rank() >= required.Rank(),
			CurrentTier: plan.TierFree,
			IsCanceling: true,
			PeriodEnd:   rec.PeriodEnd,
		}, nil
	}

	fresh, err := e.store.Get(ctx, rec.AccountID)
	if err != nil {
		return nil, err
	}

	return &Access{
		Allowed:     fresh.Plan.Rank() >= required.Rank(),
		CurrentTier: fresh.Plan,
		IsCanceling: fresh.Status == RecordCanceling,
		PeriodEnd:   fresh.PeriodEnd,
	}, nil
}
