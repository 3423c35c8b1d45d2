package audit

import (
	"fmt"
	"time"

	"github.com/plankit/plankit/pkg/plan"
)

// ActorSystemSync identifies entries written by automated
// reconciliation, as opposed to a human admin ID.
const ActorSystemSync = "system-sync"

// Action classifies what a plan-change audit entry records.
type Action string

const (
	ActionPlanUpgrade          Action = "PLAN_UPGRADE"
	ActionPlanDowngrade        Action = "PLAN_DOWNGRADE"
	ActionSubscriptionCanceled Action = "SUBSCRIPTION_CANCELED"
)

// Entry is a single append-only audit record of a plan change or
// subscription cancellation. Entries are never mutated or deleted.
type Entry struct {
	ID        string         `json:"id" bson:"_id"`
	Actor     string         `json:"actor" bson:"actor"`
	Action    Action         `json:"action" bson:"action"`
	AccountID string         `json:"account_id" bson:"account_id"`
	FromTier  plan.Tier      `json:"from_tier" bson:"from_tier"`
	ToTier    plan.Tier      `json:"to_tier" bson:"to_tier"`
	Reason    string         `json:"reason" bson:"reason"`
	Details   map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// Validate checks that the entry has all required fields.
func (e *Entry) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEntryValidation)
	}
	if e.AccountID == "" {
		return fmt.Errorf("%w: account ID is required", ErrEntryValidation)
	}
	return nil
}
