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

func TestSavingPaymentHistoryRepository(t *testing.T) {
	gdb := setupTestDB(t)
	subs := NewSavingSubscriptionRepository(gdb, testLogger)
	repo := NewSavingPaymentHistoryRepository(gdb)
	ctx := context.Background()

	sub := createSubscription(t, subs, 7, 4, biztime.Date(2025, 1, 1))
	lines, err := saving.BuildSchedule(sub, saving.TickPolicy{})
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(ctx, lines))
	for _, l := range lines {
		assert.NotZero(t, l.ID())
	}

	count, err := repo.CountBySubscription(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	t.Run("cycle is unique per subscription", func(t *testing.T) {
		dup, err := saving.NewPlannedPayment(sub.ID(), 1, biztime.Date(2025, 1, 1), decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.Error(t, repo.CreateBatch(ctx, []*saving.PaymentHistory{dup}))
	})

	t.Run("settles a planned line once", func(t *testing.T) {
		next, err := repo.GetNextPlanned(ctx, sub.ID())
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, 1, next.Cycle())
		assert.True(t, next.DueDate().Equal(biztime.Date(2025, 1, 1)))

		require.NoError(t, next.MarkPaid(next.ExpectedAmount(), "wtx_1", time.Now().UTC()))
		require.NoError(t, repo.UpdateSettlement(ctx, next))

		// the stale copy loses the race
		stale, err := saving.ReconstructPaymentHistory(saving.PaymentHistoryReconstructParams{
			ID:             next.ID(),
			SubscriptionID: sub.ID(),
			Cycle:          1,
			DueDate:        next.DueDate(),
			ExpectedAmount: next.ExpectedAmount(),
			Status:         vo.PaymentPlanned,
		})
		require.NoError(t, err)
		require.NoError(t, stale.MarkMissed("insufficient funds", time.Now().UTC()))
		assert.ErrorIs(t, repo.UpdateSettlement(ctx, stale), saving.ErrPaymentNotPlanned)

		all, err := repo.ListBySubscription(ctx, sub.ID())
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, vo.PaymentPaid, all[0].Status())
		require.NotNil(t, all[0].PaidAmount())
		assert.True(t, all[0].PaidAmount().Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, "wtx_1", *all[0].WalletTxID())
	})

	t.Run("next planned honors the from date", func(t *testing.T) {
		next, err := repo.GetNextPlanned(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, next.Cycle())

		next, err = repo.GetNextPlannedFrom(ctx, sub.ID(), biztime.Date(2025, 1, 3))
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, 3, next.Cycle())

		next, err = repo.GetNextPlannedFrom(ctx, sub.ID(), biztime.Date(2025, 1, 9))
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("counts by status", func(t *testing.T) {
		next, err := repo.GetNextPlanned(ctx, sub.ID())
		require.NoError(t, err)
		require.NoError(t, next.MarkMissed("insufficient funds", time.Now().UTC()))
		require.NoError(t, repo.UpdateSettlement(ctx, next))

		missed, err := repo.CountByStatus(ctx, sub.ID(), vo.PaymentMissed)
		require.NoError(t, err)
		assert.Equal(t, int64(1), missed)

		planned, err := repo.CountByStatus(ctx, sub.ID(), vo.PaymentPlanned)
		require.NoError(t, err)
		assert.Equal(t, int64(2), planned)
	})
}

func TestSavingPaymentHistoryRepository_RollbackWithTransaction(t *testing.T) {
	gdb := setupTestDB(t)
	subs := NewSavingSubscriptionRepository(gdb, testLogger)
	repo := NewSavingPaymentHistoryRepository(gdb)
	txMgr := db.NewTransactionManager(gdb)
	ctx := context.Background()

	var subID uint
	err := txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := saving.NewSubscription(7, 10, 3, decimal.NewFromInt(1000), biztime.Date(2025, 1, 1), saving.TickPolicy{})
		require.NoError(t, err)
		require.NoError(t, subs.Create(txCtx, sub))
		subID = sub.ID()

		lines, err := saving.BuildSchedule(sub, saving.TickPolicy{})
		require.NoError(t, err)
		require.NoError(t, repo.CreateBatch(txCtx, lines))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = subs.GetByID(ctx, subID)
	assert.ErrorIs(t, err, saving.ErrSubscriptionNotFound)
	count, err := repo.CountBySubscription(ctx, subID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
