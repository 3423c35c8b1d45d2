package reconcile

import (
	"time"

	"github.com/plankit/plankit/pkg/billing"
	"github.com/plankit/plankit/pkg/plan"
)

// Resolution is the single canonical tier picked from a set of external
// subscription snapshots, plus every active-like snapshot that lost the
// selection and should be cleaned up.
type Resolution struct {
	Tier         plan.Tier
	Status       RecordStatus
	CanonicalID  string
	PriceID      string
	PeriodEnd    *time.Time
	DuplicateIDs []string
}

// HasDuplicates reports whether the provider held more than one
// active-like subscription for the customer.
func (r Resolution) HasDuplicates() bool {
	return len(r.DuplicateIDs) > 0
}

// Resolve picks the canonical tier from classified provider state.
//
// Active-like subscriptions win over everything else; among them the
// highest-ranked tier is canonical, with ties broken by provider list
// order (true tier ties should not occur in practice but must resolve
// deterministically when they do). With no active-like subscription, a
// past-due one resolves to its tier with past_due status. With nothing
// at all, the account is free and canceled.
//
// Pure function: no I/O, deterministic for a given state.
func Resolve(state *billing.State) Resolution {
	if state != nil && len(state.ActiveLike) > 0 {
		canonical := state.ActiveLike[0]
		for _, line := range state.ActiveLike[1:] {
			if line.Tier.Rank() > canonical.Tier.Rank() {
				canonical = line
			}
		}

		res := Resolution{
			Tier:        canonical.Tier,
			Status:      RecordActive,
			CanonicalID: canonical.ID,
			PriceID:     canonical.PriceID,
			PeriodEnd:   canonical.CurrentPeriodEnd,
		}
		for _, line := range state.ActiveLike {
			if line.ID != canonical.ID {
				res.DuplicateIDs = append(res.DuplicateIDs, line.ID)
			}
		}
		return res
	}

	if state != nil && len(state.PastDue) > 0 {
		canonical := state.PastDue[0]
		for _, line := range state.PastDue[1:] {
			if line.Tier.Rank() > canonical.Tier.Rank() {
				canonical = line
			}
		}

		return Resolution{
			Tier:        canonical.Tier,
			Status:      RecordPastDue,
			CanonicalID: canonical.ID,
			PriceID:     canonical.PriceID,
			PeriodEnd:   canonical.CurrentPeriodEnd,
		}
	}

	return Resolution{
		Tier:   plan.TierFree,
		Status: RecordCanceled,
	}
}
