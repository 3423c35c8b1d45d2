package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plankit/plankit/pkg/billing"
	"github.com/plankit/plankit/pkg/plan"
	"github.com/plankit/plankit/pkg/reconcile"
)

func billedRecord(accountID, customerID string, tier plan.Tier) reconcile.Record {
	return reconcile.Record{
		AccountID:      accountID,
		Plan:           tier,
		Status:         reconcile.RecordActive,
		CustomerID:     customerID,
		SubscriptionID: "sub_" + accountID,
		PriceID:        "pri_pro",
	}
}

func TestEngine_Sweep_ContinuesPastFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put(billedRecord("acc_1", "ctm_1", plan.TierPro))
	f.store.Put(billedRecord("acc_2", "ctm_2", plan.TierPro))
	f.store.Put(billedRecord("acc_3", "ctm_3", plan.TierPro))

	// acc_1 is in sync, acc_2's fetch fails, acc_3 has drifted.
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_1").Return([]billing.Snapshot{
		{ID: "sub_acc_1", PriceID: "pri_pro", Status: billing.StatusActive},
	}, nil)
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_2").
		Return(nil, billing.ErrProviderUnavailable)
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_3").Return([]billing.Snapshot{
		{ID: "sub_acc_3", PriceID: "pri_ent", Status: billing.StatusActive},
	}, nil)

	summary, err := f.engine.Sweep(context.Background(), reconcile.SweepOptions{Concurrency: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Checked)
	assert.Equal(t, 1, summary.InSync)
	assert.Equal(t, 1, summary.Fixed)
	assert.Equal(t, 1, summary.Errored)

	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "acc_2", summary.Errors[0].AccountID)

	require.Len(t, summary.Fixes, 1)
	assert.Equal(t, "acc_3", summary.Fixes[0].AccountID)
	assert.Equal(t, plan.TierEnterprise, summary.Fixes[0].To)

	// The failed account keeps its last known state.
	rec, _ := f.store.Get(context.Background(), "acc_2")
	assert.Equal(t, plan.TierPro, rec.Plan)
	rec, _ = f.store.Get(context.Background(), "acc_3")
	assert.Equal(t, plan.TierEnterprise, rec.Plan)
}

func TestEngine_Sweep_DryRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put(billedRecord("acc_1", "ctm_1", plan.TierPro))
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_1").Return([]billing.Snapshot{
		{ID: "sub_acc_1", PriceID: "pri_ent", Status: billing.StatusActive},
	}, nil)

	summary, err := f.engine.Sweep(context.Background(), reconcile.SweepOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Fixed)
	require.Len(t, summary.Fixes, 1)

	rec, _ := f.store.Get(context.Background(), "acc_1")
	assert.Equal(t, plan.TierPro, rec.Plan)
	assert.Empty(t, f.auditLog.Entries())
}

func TestEngine_Sweep_SkipsUnbilledAccounts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put(billedRecord("acc_1", "ctm_1", plan.TierPro))
	f.store.Put(reconcile.Record{AccountID: "acc_free", Plan: plan.TierFree, Status: reconcile.RecordCanceled})
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_1").Return([]billing.Snapshot{
		{ID: "sub_acc_1", PriceID: "pri_pro", Status: billing.StatusActive},
	}, nil)

	summary, err := f.engine.Sweep(context.Background(), reconcile.SweepOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Checked)
}

func TestEngine_Sweep_Limit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put(billedRecord("acc_1", "ctm_1", plan.TierPro))
	f.store.Put(billedRecord("acc_2", "ctm_2", plan.TierPro))
	f.provider.On("ListSubscriptions", mock.Anything, "ctm_1").Return([]billing.Snapshot{
		{ID: "sub_acc_1", PriceID: "pri_pro", Status: billing.StatusActive},
	}, nil)

	summary, err := f.engine.Sweep(context.Background(), reconcile.SweepOptions{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Checked)
	f.provider.AssertNotCalled(t, "ListSubscriptions", mock.Anything, "ctm_2")
}
