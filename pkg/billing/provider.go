package billing

import "context"

// Provider defines the minimal interface for billing provider
// integrations. This abstraction allows support for different providers
// (Paddle, Stripe, Lemonsqueezy) while avoiding vendor lock-in; the
// reconciliation engine only needs to observe and cancel subscriptions.
//
// Implementations should use official provider SDKs and handle
// provider-specific quirks internally. Any transport, rate-limit or
// timeout failure must be reported by wrapping ErrProviderUnavailable
// so callers can distinguish transient outages from terminal errors.
type Provider interface {
	// ListSubscriptions returns every subscription for the customer
	// regardless of status, in the provider's list order.
	ListSubscriptions(ctx context.Context, customerID string) ([]Snapshot, error)

	// CancelSubscription cancels one subscription immediately.
	// Used by duplicate cleanup, never by plan resolution.
	CancelSubscription(ctx context.Context, subscriptionID string) error
}
