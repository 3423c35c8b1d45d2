package billing

import (
	"context"
	"errors"
)

var (
	// ErrProviderUnavailable marks transient provider failures
	// (network, timeout, rate limit). Callers may retry or skip;
	// local state is never mutated on this error.
	ErrProviderUnavailable = errors.New("billing provider unavailable")

	// ErrUnmappablePrice marks a snapshot whose price ID is not in the
	// price table. The affected snapshot degrades to the free tier
	// rather than failing the whole fetch.
	ErrUnmappablePrice = errors.New("price ID not in price table")

	ErrMissingCustomerID     = errors.New("billing customer ID is required")
	ErrMissingSubscriptionID = errors.New("billing subscription ID is required")
	ErrMissingAPIKey         = errors.New("billing provider API key is required")
	ErrInvalidEnvironment    = errors.New("invalid billing provider environment")
)

// IsTransient reports whether err represents a temporary provider
// failure that is safe to retry. Context deadline errors count as
// transient because every provider call carries a bounded timeout.
func IsTransient(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}
