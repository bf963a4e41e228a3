package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "finsim/internal/domain/wallet"
	"finsim/internal/shared/logger"
)

type flakyLedger struct {
	failures int
	err      error
	calls    int
}

func (f *flakyLedger) Debit(_ context.Context, _ uint, _ string, _ decimal.Decimal) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "wtx_ok", nil
}

func (f *flakyLedger) Credit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	return f.Debit(ctx, userID, requestID, amount)
}

func (f *flakyLedger) Balance(context.Context, uint) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newTestRetryingLedger(next domain.Ledger, retries uint) *RetryingLedger {
	r := NewRetryingLedger(next, retries, logger.NewNop())
	r.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return r
}

func TestRetryingLedger_RetriesUnavailable(t *testing.T) {
	next := &flakyLedger{failures: 2, err: domain.ErrWalletUnavailable}
	r := newTestRetryingLedger(next, 3)

	txID, err := r.Debit(context.Background(), 1, "req", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, "wtx_ok", txID)
	assert.Equal(t, 3, next.calls)
}

func TestRetryingLedger_GivesUp(t *testing.T) {
	next := &flakyLedger{failures: 10, err: domain.ErrWalletUnavailable}
	r := newTestRetryingLedger(next, 2)

	_, err := r.Credit(context.Background(), 1, "req", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrWalletUnavailable)
	assert.Equal(t, 3, next.calls)
}

func TestRetryingLedger_DoesNotRetryBusinessErrors(t *testing.T) {
	next := &flakyLedger{failures: 10, err: domain.ErrInsufficientFunds}
	r := newTestRetryingLedger(next, 3)

	_, err := r.Debit(context.Background(), 1, "req", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrInsufficientFunds))
	assert.Equal(t, 1, next.calls)
}
