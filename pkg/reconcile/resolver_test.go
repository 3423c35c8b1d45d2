package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plankit/plankit/pkg/billing"
	"github.com/plankit/plankit/pkg/plan"
	"github.com/plankit/plankit/pkg/reconcile"
)

func line(id, priceID string, tier plan.Tier, status billing.SubscriptionStatus) billing.Line {
	return billing.Line{
		Snapshot: billing.Snapshot{ID: id, PriceID: priceID, Status: status},
		Tier:     tier,
	}
}

func TestResolve_HighestTierWins(t *testing.T) {
	t.Parallel()

	state := &billing.State{
		ActiveLike: []billing.Line{
			line("sub_pro", "pri_pro", plan.TierPro, billing.StatusActive),
			line("sub_ent", "pri_ent", plan.TierEnterprise, billing.StatusActive),
		},
	}

	res := reconcile.Resolve(state)
	assert.Equal(t, plan.TierEnterprise, res.Tier)
	assert.Equal(t, reconcile.RecordActive, res.Status)
	assert.Equal(t, "sub_ent", res.CanonicalID)
	assert.Equal(t, "pri_ent", res.PriceID)
	// Every other active-like snapshot is a duplicate.
	assert.Equal(t, []string{"sub_pro"}, res.DuplicateIDs)
	assert.True(t, res.HasDuplicates())
}

func TestResolve_TieBrokenByListOrder(t *testing.T) {
	t.Parallel()

	state := &billing.State{
		ActiveLike: []billing.Line{
			line("sub_first", "pri_pro", plan.TierPro, billing.StatusActive),
			line("sub_second", "pri_pro", plan.TierPro, billing.StatusTrialing),
		},
	}

	res := reconcile.Resolve(state)
	assert.Equal(t, "sub_first", res.CanonicalID)
	assert.Equal(t, []string{"sub_second"}, res.DuplicateIDs)
}

func TestResolve_TrialingCountsAsActive(t *testing.T) {
	t.Parallel()

	state := &billing.State{
		ActiveLike: []billing.Line{
			line("sub_trial", "pri_pro", plan.TierPro, billing.StatusTrialing),
		},
	}

	res := reconcile.Resolve(state)
	assert.Equal(t, plan.TierPro, res.Tier)
	assert.Equal(t, reconcile.RecordActive, res.Status)
	assert.False(t, res.HasDuplicates())
}

func TestResolve_PastDueFallback(t *testing.T) {
	t.Parallel()

	state := &billing.State{
		PastDue: []billing.Line{
			line("sub_pd", "pri_pro", plan.TierPro, billing.StatusPastDue),
		},
		Ended: []billing.Line{
			line("sub_old", "pri_ent", plan.TierEnterprise, billing.StatusCanceled),
		},
	}

	res := reconcile.Resolve(state)
	assert.Equal(t, plan.TierPro, res.Tier)
	assert.Equal(t, reconcile.RecordPastDue, res.Status)
	assert.Equal(t, "sub_pd", res.CanonicalID)
	assert.Empty(t, res.DuplicateIDs)
}

func TestResolve_NoSubscriptionsResolvesToFree(t *testing.T) {
	t.Parallel()

	res := reconcile.Resolve(&billing.State{})
	assert.Equal(t, plan.TierFree, res.Tier)
	assert.Equal(t, reconcile.RecordCanceled, res.Status)
	assert.Empty(t, res.CanonicalID)
	assert.Empty(t, res.DuplicateIDs)

	// Nil state behaves like empty state.
	res = reconcile.Resolve(nil)
	assert.Equal(t, plan.TierFree, res.Tier)
}

func TestResolve_ActiveBeatsPastDue(t *testing.T) {
	t.Parallel()

	state := &billing.State{
		ActiveLike: []billing.Line{
			line("sub_free_rank", "pri_bogus", plan.TierFree, billing.StatusActive),
		},
		PastDue: []billing.Line{
			line("sub_pd", "pri_ent", plan.TierEnterprise, billing.StatusPastDue),
		},
	}

	// An active-like subscription wins even when a past-due one has a
	// higher tier: access follows what is actually being paid for.
	res := reconcile.Resolve(state)
	assert.Equal(t, plan.TierFree, res.Tier)
	assert.Equal(t, reconcile.RecordActive, res.Status)
	assert.Equal(t, "sub_free_rank", res.CanonicalID)
}

func TestResolve_CarriesPeriodEnd(t *testing.T) {
	t.Parallel()

	end := time.Now().Add(720 * time.Hour).UTC()
	state := &billing.State{
		ActiveLike: []billing.Line{
			{
				Snapshot: billing.Snapshot{ID: "sub_a", PriceID: "pri_pro", Status: billing.StatusActive, CurrentPeriodEnd: &end},
				Tier:     plan.TierPro,
			},
		},
	}

	res := reconcile.Resolve(state)
	require.NotNil(t, res.PeriodEnd)
	assert.True(t, res.PeriodEnd.Equal(end))
}

func TestResolve_ManyDuplicatesPreserveOrder(t *testing.T) {
	t.Parallel()

	state := &billing.State{
		ActiveLike: []billing.Line{
			line("sub_a", "pri_pro", plan.TierPro, billing.StatusActive),
			line("sub_b", "pri_ent", plan.TierEnterprise, billing.StatusActive),
			line("sub_c", "pri_pro", plan.TierPro, billing.StatusActive),
			line("sub_d", "pri_pro", plan.TierPro, billing.StatusTrialing),
		},
	}

	res := reconcile.Resolve(state)
	assert.Equal(t, "sub_b", res.CanonicalID)
	assert.Equal(t, []string{"sub_a", "sub_c", "sub_d"}, res.DuplicateIDs)
}
