package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plankit/plankit/pkg/notify"
	"github.com/plankit/plankit/pkg/plan"
)

func TestPlanChange_Direction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "upgrade", notify.PlanChange{From: plan.TierFree, To: plan.TierPro}.Direction())
	assert.Equal(t, "downgrade", notify.PlanChange{From: plan.TierEnterprise, To: plan.TierFree}.Direction())
	assert.Equal(t, "none", notify.PlanChange{From: plan.TierPro, To: plan.TierPro}.Direction())
}

func TestPlanChange_DefaultMessage(t *testing.T) {
	t.Parallel()

	t.Run("keeps explicit message", func(t *testing.T) {
		t.Parallel()
		c := notify.PlanChange{Message: "custom", From: plan.TierFree, To: plan.TierPro}
		assert.Equal(t, "custom", c.DefaultMessage())
	})

	t.Run("renders upgrade", func(t *testing.T) {
		t.Parallel()
		c := notify.PlanChange{From: plan.TierFree, To: plan.TierEnterprise}
		assert.Contains(t, c.DefaultMessage(), "upgraded to enterprise")
	})

	t.Run("renders downgrade", func(t *testing.T) {
		t.Parallel()
		c := notify.PlanChange{From: plan.TierPro, To: plan.TierFree}
		assert.Contains(t, c.DefaultMessage(), "changed to free")
	})
}

func TestMemoryNotifier(t *testing.T) {
	t.Parallel()

	n := notify.NewMemoryNotifier()
	require.NoError(t, n.Notify(context.Background(), notify.PlanChange{AccountID: "acc_1", From: plan.TierFree, To: plan.TierPro}))
	require.NoError(t, n.Notify(context.Background(), notify.PlanChange{AccountID: "acc_2", From: plan.TierPro, To: plan.TierFree}))

	changes := n.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, "acc_1", changes[0].AccountID)
}

func TestNewEmailNotifier_Validation(t *testing.T) {
	t.Parallel()

	resolver := func(context.Context, string) (string, error) { return "user@example.com", nil }

	_, err := notify.NewEmailNotifier(notify.EmailConfig{}, resolver)
	assert.ErrorIs(t, err, notify.ErrInvalidEmailConfig)

	_, err = notify.NewEmailNotifier(notify.EmailConfig{
		ServerToken:  "srv",
		AccountToken: "acc",
		SenderEmail:  "billing@example.com",
	}, nil)
	assert.ErrorIs(t, err, notify.ErrInvalidEmailConfig)

	n, err := notify.NewEmailNotifier(notify.EmailConfig{
		ServerToken:  "srv",
		AccountToken: "acc",
		SenderEmail:  "billing@example.com",
	}, resolver)
	require.NoError(t, err)
	assert.NotNil(t, n)
}
