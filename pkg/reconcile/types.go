package reconcile

import (
	"time"

	"github.com/plankit/plankit/pkg/plan"
)

// RecordStatus is the closed set of billing states a local account
// record can hold. Comparisons always go through this enumeration,
// never raw provider strings.
type RecordStatus string

const (
	RecordActive    RecordStatus = "active"
	RecordCanceling RecordStatus = "canceling"
	RecordPastDue   RecordStatus = "past_due"
	RecordCanceled  RecordStatus = "canceled"
)

// Record is the local, durable billing state of one account. It is the
// only entity mutated by reconciliation.
//
// Invariant: an empty CustomerID means the account never entered
// billing and the plan must be free. Invariant: Plan equals the
// resolver's output for the most recent successful fetch, or is stale
// only within the cooldown window.
type Record struct {
	AccountID      string
	Plan           plan.Tier
	Status         RecordStatus
	CustomerID     string // billing provider customer ID; empty = never billed
	SubscriptionID string // canonical provider subscription ID
	PriceID        string
	PeriodEnd      *time.Time
	UpdatedAt      time.Time
}

// HasBilling reports whether the account has ever entered billing.
func (r *Record) HasBilling() bool {
	return r.CustomerID != ""
}

// Patch is the atomic multi-field update applied to a record when a
// fix is needed. All fields are written in one transaction or not at
// all; there is no partial mutation.
type Patch struct {
	Plan           plan.Tier
	Status         RecordStatus
	SubscriptionID string
	PriceID        string
	PeriodEnd      *time.Time
}

// Mode controls what a reconciliation call is allowed to do. The three
// effects are independent and named rather than threaded through
// positional booleans.
type Mode struct {
	Mutate           bool // apply the fix to the local record
	EmitAudit        bool // write an audit entry for an applied tier change
	EmitNotification bool // notify the user of an applied tier change
}

var (
	// ModeDryRun compares without mutating. Used by diagnostics and
	// sweep previews.
	ModeDryRun = Mode{}

	// ModeFix applies fixes with full audit and notification output.
	ModeFix = Mode{Mutate: true, EmitAudit: true, EmitNotification: true}

	// ModeFixSilent applies fixes without audit or notifications.
	// Used by access checks where a background heal should not spam
	// the user.
	ModeFixSilent = Mode{Mutate: true}
)

// Result reports the outcome of one reconciliation call.
type Result struct {
	InSync       bool      `json:"in_sync"`
	Fixed        bool      `json:"fixed"`
	Skipped      bool      `json:"skipped,omitempty"` // cooldown suppressed the sync
	PreviousTier plan.Tier `json:"previous_tier"`
	CurrentTier  plan.Tier `json:"current_tier"`
	Message      string    `json:"message,omitempty"`
}

// Access is the grace-period gate's answer to "does this account have
// access to the required tier right now".
type Access struct {
	Allowed     bool       `json:"allowed"`
	CurrentTier plan.Tier  `json:"current_tier"`
	IsCanceling bool       `json:"is_canceling"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
}
