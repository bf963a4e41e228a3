package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsim/internal/domain/saving"
	vo "finsim/internal/domain/saving/valueobjects"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/db"
)

func createSubscription(t *testing.T, repo saving.SubscriptionRepository, userID uint, term int, start time.Time) *saving.Subscription {
	t.Helper()
	sub, err := saving.NewSubscription(userID, 10, term, decimal.NewFromInt(50000), start, saving.TickPolicy{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), sub))
	return sub
}

func TestSavingSubscriptionRepository_CreateAndGet(t *testing.T) {
	repo := NewSavingSubscriptionRepository(setupTestDB(t), testLogger)
	ctx := context.Background()

	sub := createSubscription(t, repo, 7, 12, biztime.Date(2025, 3, 1))
	assert.NotZero(t, sub.ID())

	found, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, uint(7), found.UserID())
	assert.Equal(t, 12, found.Term())
	assert.True(t, found.AutoDebitAmount().Equal(decimal.NewFromInt(50000)))
	assert.True(t, found.StartDate().Equal(biztime.Date(2025, 3, 1)))
	assert.True(t, found.MaturityDate().Equal(biztime.Date(2025, 3, 13)))
	assert.Equal(t, vo.StatusActive, found.Status())
	assert.Nil(t, found.Settlement())
	assert.Equal(t, 1, found.Version())

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, saving.ErrSubscriptionNotFound)
}

func TestSavingSubscriptionRepository_GetByIDForUpdate(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSavingSubscriptionRepository(gdb, testLogger)
	sub := createSubscription(t, repo, 7, 3, biztime.Date(2025, 1, 1))

	err := db.NewTransactionManager(gdb).RunInTransaction(context.Background(), func(txCtx context.Context) error {
		locked, err := repo.GetByIDForUpdate(txCtx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.StatusActive, locked.Status())
		assert.Equal(t, sub.Version(), locked.Version())

		_, err = repo.GetByIDForUpdate(txCtx, 999)
		assert.ErrorIs(t, err, saving.ErrSubscriptionNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestSavingSubscriptionRepository_Update(t *testing.T) {
	repo := NewSavingSubscriptionRepository(setupTestDB(t), testLogger)
	ctx := context.Background()
	sub := createSubscription(t, repo, 7, 3, biztime.Date(2025, 1, 1))

	t.Run("settlement snapshot round trips", func(t *testing.T) {
		loaded, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)

		today := biztime.Date(2025, 1, 4)
		settlement, err := saving.ComputeSettlement(decimal.NewFromInt(150000), decimal.NewFromInt(3), 3, 0, today)
		require.NoError(t, err)
		settlement.TransactionID = "wtx_abc"
		require.NoError(t, loaded.Mature(settlement, today, time.Now().UTC()))
		require.NoError(t, repo.Update(ctx, loaded))

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.StatusMatured, found.Status())
		assert.NotNil(t, found.MaturedAt())
		require.NotNil(t, found.Settlement())
		assert.True(t, found.Settlement().Total.Equal(decimal.NewFromInt(154500)))
		assert.Equal(t, "wtx_abc", found.Settlement().TransactionID)
		assert.Equal(t, 2, found.Version())
	})

	t.Run("stale copy is rejected", func(t *testing.T) {
		other := createSubscription(t, repo, 8, 3, biztime.Date(2025, 1, 1))

		first, err := repo.GetByID(ctx, other.ID())
		require.NoError(t, err)
		second, err := repo.GetByID(ctx, other.ID())
		require.NoError(t, err)

		require.NoError(t, first.Cancel(time.Now().UTC()))
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.Terminate(time.Now().UTC()))
		err = repo.Update(ctx, second)
		assert.ErrorIs(t, err, saving.ErrConcurrentModification)

		found, err := repo.GetByID(ctx, other.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.StatusCanceled, found.Status())
	})
}

func TestSavingSubscriptionRepository_Queries(t *testing.T) {
	repo := NewSavingSubscriptionRepository(setupTestDB(t), testLogger)
	ctx := context.Background()

	a := createSubscription(t, repo, 1, 3, biztime.Date(2025, 1, 5))  // matures 01-08
	b := createSubscription(t, repo, 1, 2, biztime.Date(2025, 1, 1))  // matures 01-03
	c := createSubscription(t, repo, 2, 10, biztime.Date(2025, 1, 1)) // matures 01-11
	d := createSubscription(t, repo, 3, 1, biztime.Date(2025, 1, 1))  // canceled below

	canceled, err := repo.GetByID(ctx, d.ID())
	require.NoError(t, err)
	require.NoError(t, canceled.Cancel(time.Now().UTC()))
	require.NoError(t, repo.Update(ctx, canceled))

	t.Run("by user and status", func(t *testing.T) {
		subs, err := repo.ListByUserAndStatus(ctx, 1, vo.StatusActive)
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, a.ID(), subs[0].ID())
		assert.Equal(t, b.ID(), subs[1].ID())

		subs, err = repo.ListByUserAndStatus(ctx, 3, vo.StatusActive)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("active user ids", func(t *testing.T) {
		ids, err := repo.ListActiveUserIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2}, ids)
	})

	t.Run("matured active", func(t *testing.T) {
		subs, err := repo.ListMaturedActive(ctx, 0, biztime.Date(2025, 1, 8))
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, b.ID(), subs[0].ID())
		assert.Equal(t, a.ID(), subs[1].ID())

		subs, err = repo.ListMaturedActive(ctx, 2, biztime.Date(2025, 1, 8))
		require.NoError(t, err)
		assert.Empty(t, subs)

		subs, err = repo.ListMaturedActive(ctx, 2, biztime.Date(2025, 1, 11))
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, c.ID(), subs[0].ID())
	})
}
