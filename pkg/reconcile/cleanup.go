package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plankit/plankit/pkg/audit"
	"github.com/plankit/plankit/pkg/logger"
)

// CleanupReport describes one duplicate-cleanup pass.
type CleanupReport struct {
	CanonicalID string   `json:"canonical_id"`
	Canceled    []string `json:"canceled,omitempty"`
	Failed      []string `json:"failed,omitempty"`
}

// CleanupDuplicates cancels every non-canonical active-like
// subscription for the account's billing customer. Each cancellation is
// independent: one failure does not abort the others, and each attempt
// produces its own audit entry recording which subscription was kept.
//
// This is separately invokable from Reconcile so plan correctness never
// blocks on provider cancel calls succeeding. Returns ErrPartialCleanup
// (with the report still populated) when any cancellation failed.
func (e *Engine) CleanupDuplicates(ctx context.Context, accountID string) (*CleanupReport, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}

	rec, err := e.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !rec.HasBilling() {
		return &CleanupReport{}, nil
	}

	state, err := e.fetcher.Fetch(ctx, rec.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for account %s: %w", accountID, err)
	}

	return e.cancelDuplicates(ctx, accountID, rec.CustomerID, Resolve(state))
}

func (e *Engine) cancelDuplicates(ctx context.Context, accountID, customerID string, res Resolution) (*CleanupReport, error) {
	report := &CleanupReport{CanonicalID: res.CanonicalID}
	if !res.HasDuplicates() {
		return report, nil
	}

	for _, dupID := range res.DuplicateIDs {
		cancelErr := e.provider.CancelSubscription(ctx, dupID)
		if cancelErr != nil {
			report.Failed = append(report.Failed, dupID)
			e.log.LogAttrs(ctx, slog.LevelWarn, "failed to cancel duplicate subscription",
				logger.AccountID(accountID),
				logger.CustomerID(customerID),
				logger.SubscriptionID(dupID),
				logger.Error(cancelErr),
			)
		} else {
			report.Canceled = append(report.Canceled, dupID)
		}

		if e.trail != nil {
			details := map[string]any{
				"kept":    res.CanonicalID,
				"removed": dupID,
			}
			if cancelErr != nil {
				details["error"] = cancelErr.Error()
			}

			err := e.trail.Record(ctx, audit.Entry{
				Action:    audit.ActionSubscriptionCanceled,
				AccountID: accountID,
				FromTier:  res.Tier,
				ToTier:    res.Tier,
				Reason:    "duplicate subscription cleanup",
				Details:   details,
			})
			if err != nil {
				e.log.LogAttrs(ctx, slog.LevelWarn, "failed to record cleanup audit entry",
					logger.AccountID(accountID),
					logger.Error(err),
				)
			}
		}
	}

	if len(report.Failed) > 0 {
		return report, fmt.Errorf("%w: %d of %d failed",
			ErrPartialCleanup, len(report.Failed), len(res.DuplicateIDs))
	}
	return report, nil
}
