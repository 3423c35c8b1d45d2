package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plankit/plankit/pkg/audit"
	"github.com/plankit/plankit/pkg/plan"
)

func TestTrail_Record(t *testing.T) {
	t.Parallel()

	t.Run("stamps id, timestamp and default actor", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		trail := audit.NewTrail(storage)

		err := trail.Record(context.Background(), audit.Entry{
			Action:    audit.ActionPlanUpgrade,
			AccountID: "acc_1",
			FromTier:  plan.TierFree,
			ToTier:    plan.TierPro,
			Reason:    "reconciliation fix",
		})
		require.NoError(t, err)

		entries := storage.Entries()
		require.Len(t, entries, 1)
		assert.NotEmpty(t, entries[0].ID)
		assert.False(t, entries[0].CreatedAt.IsZero())
		assert.Equal(t, audit.ActorSystemSync, entries[0].Actor)
		assert.Equal(t, plan.TierPro, entries[0].ToTier)
	})

	t.Run("keeps explicit actor", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		trail := audit.NewTrail(storage)

		err := trail.Record(context.Background(), audit.Entry{
			Actor:     "admin_42",
			Action:    audit.ActionSubscriptionCanceled,
			AccountID: "acc_1",
		})
		require.NoError(t, err)
		assert.Equal(t, "admin_42", storage.Entries()[0].Actor)
	})

	t.Run("rejects missing action", func(t *testing.T) {
		t.Parallel()
		trail := audit.NewTrail(audit.NewMemoryStorage())
		err := trail.Record(context.Background(), audit.Entry{AccountID: "acc_1"})
		assert.ErrorIs(t, err, audit.ErrEntryValidation)
	})

	t.Run("rejects missing account", func(t *testing.T) {
		t.Parallel()
		trail := audit.NewTrail(audit.NewMemoryStorage())
		err := trail.Record(context.Background(), audit.Entry{Action: audit.ActionPlanUpgrade})
		assert.ErrorIs(t, err, audit.ErrEntryValidation)
	})
}

func TestAsyncStorage(t *testing.T) {
	t.Parallel()

	t.Run("persists entries in background", func(t *testing.T) {
		t.Parallel()
		backing := audit.NewMemoryStorage()
		trail := audit.NewTrail(backing, audit.WithAsyncBuffer(16))

		for i := 0; i < 5; i++ {
			require.NoError(t, trail.Record(context.Background(), audit.Entry{
				Action:    audit.ActionPlanDowngrade,
				AccountID: "acc_1",
			}))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, trail.Close(ctx))

		assert.Len(t, backing.Entries(), 5)
	})

	t.Run("store after close reports unavailable", func(t *testing.T) {
		t.Parallel()
		as := audit.NewAsyncStorage(audit.NewMemoryStorage(), 4)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, as.Close(ctx))

		err := as.Store(context.Background(), audit.Entry{Action: audit.ActionPlanUpgrade, AccountID: "acc_1"})
		assert.ErrorIs(t, err, audit.ErrStorageNotAvailable)
	})
}

func TestMemoryStorage_ByAccount(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	_ = storage.Store(context.Background(), audit.Entry{ID: "1", AccountID: "acc_1", Action: audit.ActionPlanUpgrade})
	_ = storage.Store(context.Background(), audit.Entry{ID: "2", AccountID: "acc_2", Action: audit.ActionPlanUpgrade})
	_ = storage.Store(context.Background(), audit.Entry{ID: "3", AccountID: "acc_1", Action: audit.ActionPlanDowngrade})

	entries := storage.ByAccount("acc_1")
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, "3", entries[1].ID)
}
