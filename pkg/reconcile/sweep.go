package reconcile

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/plankit/plankit/pkg/logger"
	"github.com/plankit/plankit/pkg/plan"
)

const defaultSweepConcurrency = 4

// SweepOptions configures a batch sweep.
type SweepOptions struct {
	// Concurrency bounds the worker pool. Size it to respect the
	// billing provider's rate limits, not the local store's capacity.
	Concurrency int `json:"concurrency"`

	// Limit caps how many accounts are processed; 0 means all.
	Limit int `json:"limit"`

	// DryRun runs the same comparison logic without mutating, so
	// operators can preview drift before applying fixes at scale.
	DryRun bool `json:"dry_run"`
}

// SweepFix records one applied (or, in dry-run, needed) fix.
type SweepFix struct {
	AccountID string    `json:"account_id"`
	From      plan.Tier `json:"from"`
	To        plan.Tier `json:"to"`
}

// SweepError records one account whose reconciliation failed.
type SweepError struct {
	AccountID string `json:"account_id"`
	Message   string `json:"message"`
}

// SweepSummary aggregates a sweep's outcome.
type SweepSummary struct {
	Checked int          `json:"checked"`
	InSync  int          `json:"in_sync"`
	Fixed   int          `json:"fixed"`
	Errored int          `json:"errored"`
	DryRun  bool         `json:"dry_run"`
	Fixes   []SweepFix   `json:"fixes,omitempty"`
	Errors  []SweepError `json:"errors,omitempty"`
}

// Sweep reconciles every account with a billing customer reference in
// bounded-concurrency, continue-on-error fashion. Reconciliation is
// embarrassingly parallel across accounts; one account's failure is
// recorded in the summary and never aborts the sweep. Context
// cancellation stops scheduling new accounts.
func (e *Engine) Sweep(ctx context.Context, opts SweepOptions) (*SweepSummary, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultSweepConcurrency
	}

	accountIDs, err := e.store.ListBilled(ctx, opts.Limit)
	if err != nil {
		return nil, err
	}

	mode := ModeFix
	if opts.DryRun {
		mode = ModeDryRun
	}

	summary := &SweepSummary{DryRun: opts.DryRun}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)

	for _, accountID := range accountIDs {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			res, err := e.Reconcile(ctx, accountID, mode)

			mu.Lock()
			defer mu.Unlock()
			summary.Checked++

			switch {
			case err != nil:
				summary.Errored++
				summary.Errors = append(summary.Errors, SweepError{
					AccountID: accountID,
					Message:   err.Error(),
				})
				e.log.LogAttrs(ctx, slog.LevelError, "sweep: account reconciliation failed",
					logger.AccountID(accountID),
					logger.Error(err),
				)
			case res.Fixed || (!res.InSync && opts.DryRun):
				summary.Fixed++
				summary.Fixes = append(summary.Fixes, SweepFix{
					AccountID: accountID,
					From:      res.PreviousTier,
					To:        res.CurrentTier,
				})
			default:
				summary.InSync++
			}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	e.log.LogAttrs(ctx, slog.LevelInfo, "sweep finished",
		slog.Int("checked", summary.Checked),
		slog.Int("in_sync", summary.InSync),
		slog.Int("fixed", summary.Fixed),
		slog.Int("errored", summary.Errored),
		slog.Bool("dry_run", opts.DryRun),
	)

	return summary, nil
}
