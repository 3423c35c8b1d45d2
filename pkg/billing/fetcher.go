package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/plankit/plankit/pkg/logger"
	"github.com/plankit/plankit/pkg/plan"
)

const defaultFetchTimeout = 10 * time.Second

// Fetcher queries the billing provider for all subscriptions of one
// customer and classifies them by status. It owns the price-table
// lookup so callers never see raw price IDs without a tier.
type Fetcher struct {
	provider Provider
	prices   plan.PriceMap
	timeout  time.Duration
	log      *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout bounds every provider call. Zero or negative values
// are ignored.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithFetcherLogger sets the logger used for degraded-snapshot warnings.
func WithFetcherLogger(log *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFetcher creates a Fetcher. Panics if provider is nil or the price
// table is empty to fail fast during initialization.
func NewFetcher(provider Provider, prices plan.PriceMap, opts ...FetcherOption) *Fetcher {
	if provider == nil {
		panic("billing: Provider is required")
	}
	if len(prices) == 0 {
		panic("billing: price table is required")
	}

	f := &Fetcher{
		provider: provider,
		prices:   prices,
		timeout:  defaultFetchTimeout,
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch lists all subscriptions for the customer and classifies them.
// A snapshot with an unmappable price ID degrades to the free tier with
// a logged warning; a single bad line item must not block
// reconciliation of the rest of the account. Provider failures
// propagate wrapped in ErrProviderUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, customerID string) (*State, error) {
	if customerID == "" {
		return nil, ErrMissingCustomerID
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	snapshots, err := f.provider.ListSubscriptions(ctx, customerID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Join(ErrProviderUnavailable, err)
		}
		return nil, err
	}

	state := &State{}
	for _, snap := range snapshots {
		tier, ok := f.prices.Resolve(snap.PriceID)
		if !ok {
			tier = plan.TierFree
			f.log.LogAttrs(ctx, slog.LevelWarn, "price ID not in price table, degrading snapshot to free tier",
				logger.CustomerID(customerID),
				logger.SubscriptionID(snap.ID),
				slog.String("price_id", snap.PriceID),
			)
		}

		line := Line{Snapshot: snap, Tier: tier}
		switch {
		case snap.Status.IsActiveLike():
			state.ActiveLike = append(state.ActiveLike, line)
		case snap.Status == StatusPastDue:
			state.PastDue = append(state.PastDue, line)
		default:
			state.Ended = append(state.Ended, line)
		}
	}

	return state, nil
}
