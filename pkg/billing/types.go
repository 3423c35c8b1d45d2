package billing

import (
	"time"

	"github.com/plankit/plankit/pkg/plan"
)

// SubscriptionStatus represents the state of a provider subscription
// as observed at fetch time.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusUnknown  SubscriptionStatus = "unknown"
)

// IsActiveLike reports whether the subscription currently grants access
// (paid or trialing).
func (s SubscriptionStatus) IsActiveLike() bool {
	return s == StatusActive || s == StatusTrialing
}

// Snapshot is one billing-provider subscription as observed at fetch
// time. Immutable once fetched and never persisted beyond the
// reconciliation call that produced it.
type Snapshot struct {
	ID               string
	PriceID          string
	Status           SubscriptionStatus
	CurrentPeriodEnd *time.Time
}

// Line pairs a snapshot with the tier its price ID maps to.
// A price ID missing from the table degrades to the free tier.
type Line struct {
	Snapshot
	Tier plan.Tier
}

// State is the classified result of fetching all subscriptions for one
// customer. Slices preserve provider list order, which the resolver
// relies on for deterministic tie-breaking.
type State struct {
	ActiveLike []Line // status active or trialing
	PastDue    []Line
	Ended      []Line // canceled or anything else
}

// Empty reports whether the provider returned no subscriptions at all.
func (s *State) Empty() bool {
	return len(s.ActiveLike) == 0 && len(s.PastDue) == 0 && len(s.Ended) == 0
}

// Total returns the number of subscriptions observed.
func (s *State) Total() int {
	return len(s.ActiveLike) + len(s.PastDue) + len(s.Ended)
}
