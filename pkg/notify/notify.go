package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/plankit/plankit/pkg/plan"
)

// PlanChange describes a tier change applied to an account. Only tier
// changes produce notifications; status-only transitions (e.g. active
// to past_due at the same tier) do not.
type PlanChange struct {
	AccountID  string    `json:"account_id"`
	From       plan.Tier `json:"from"`
	To         plan.Tier `json:"to"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Direction reports "upgrade", "downgrade" or "none" by hierarchy rank.
func (c PlanChange) Direction() string {
	switch {
	case c.To.Rank() > c.From.Rank():
		return "upgrade"
	case c.To.Rank() < c.From.Rank():
		return "downgrade"
	default:
		return "none"
	}
}

// DefaultMessage renders a user-facing message when none was supplied.
func (c PlanChange) DefaultMessage() string {
	if c.Message != "" {
		return c.Message
	}
	switch c.Direction() {
	case "upgrade":
		return fmt.Sprintf("Your plan has been upgraded to %s.", c.To)
	case "downgrade":
		return fmt.Sprintf("Your plan has changed to %s.", c.To)
	default:
		return fmt.Sprintf("Your plan is %s.", c.To)
	}
}

// Notifier delivers plan-change notifications to users. Delivery is
// best-effort: callers log failures and move on, a notification must
// never block or fail a reconciliation.
type Notifier interface {
	Notify(ctx context.Context, change PlanChange) error
}
