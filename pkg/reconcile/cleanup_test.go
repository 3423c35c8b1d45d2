package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plankit/plankit/pkg/audit"
	"github.com/plankit/plankit/pkg/billing"
	"github.com/plankit/plankit/pkg/plan"
	"github.com/plankit/plankit/pkg/reconcile"
)

func TestEngine_CleanupDuplicates_KeepsHighestTier(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put(proRecord())
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_1").Return([]billing.Snapshot{
		{ID: "sub_ent", PriceID: "pri_ent", Status: billing.StatusActive},
		{ID: "sub_pro", PriceID: "pri_pro", Status: billing.StatusActive},
	}, nil)
	f.provider.On("CancelSubscription", mock.Anything, "sub_pro").Return(nil)

	report, err := f.engine.CleanupDuplicates(context.Background(), "acc_1")
	require.NoError(t, err)

	assert.Equal(t, "sub_ent", report.CanonicalID)
	assert.Equal(t, []string{"sub_pro"}, report.Canceled)
	assert.Empty(t, report.Failed)

	// Exactly one cancel call, targeting the lower-tier subscription.
	f.provider.AssertNumberOfCalls(t, "CancelSubscription", 1)
	f.provider.AssertNotCalled(t, "CancelSubscription", mock.Anything, "sub_ent")

	entries := f.auditLog.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionSubscriptionCanceled, entries[0].Action)
	assert.Equal(t, "sub_ent", entries[0].Details["kept"])
	assert.Equal(t, "sub_pro", entries[0].Details["removed"])
	assert.Equal(t, plan.TierEnterprise, entries[0].FromTier)
}

func TestEngine_CleanupDuplicates_PartialFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put(proRecord())
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_1").Return([]billing.Snapshot{
		{ID: "sub_ent", PriceID: "pri_ent", Status: billing.StatusActive},
		{ID: "sub_a", PriceID: "pri_pro", Status: billing.StatusActive},
		{ID: "sub_b", PriceID: "pri_pro", Status: billing.StatusActive},
	}, nil)
	f.provider.On("CancelSubscription", mock.Anything, "sub_a").
		Return(errors.New("cancel rejected"))
	f.provider.On("CancelSubscription", mock.Anything, "sub_b").Return(nil)

	report, err := f.engine.CleanupDuplicates(context.Background(), "acc_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrPartialCleanup)

	// One failed cancellation does not abort the rest.
	require.NotNil(t, report)
	assert.Equal(t, []string{"sub_a"}, report.Failed)
	assert.Equal(t, []string{"sub_b"}, report.Canceled)

	// Every attempt is audited, including the failed one.
	entries := f.auditLog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "cancel rejected", entries[0].Details["error"])
	assert.NotContains(t, entries[1].Details, "error")
}

func TestEngine_CleanupDuplicates_NoDuplicates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put(proRecord())
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_1").Return([]billing.Snapshot{
		{ID: "sub_pro", PriceID: "pri_pro", Status: billing.StatusActive},
	}, nil)

	report, err := f.engine.CleanupDuplicates(context.Background(), "acc_1")
	require.NoError(t, err)
	assert.Empty(t, report.Canceled)
	f.provider.AssertNotCalled(t, "CancelSubscription")
}

func TestEngine_CleanupDuplicates_UnbilledAccount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put(reconcile.Record{AccountID: "acc_1", Plan: plan.TierFree, Status: reconcile.RecordCanceled})

	report, err := f.engine.CleanupDuplicates(context.Background(), "acc_1")
	require.NoError(t, err)
	assert.Empty(t, report.CanonicalID)
	f.provider.AssertNotCalled(t, "ListSubscriptions")
}
