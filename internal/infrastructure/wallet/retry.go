package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"

	domain "finsim/internal/domain/wallet"
	"finsim/internal/shared/logger"
)

// RetryingLedger retries movements that failed with ErrWalletUnavailable.
// Replays reuse the same request id, so a retry after an unseen success
// returns the original transaction instead of moving money twice.
type RetryingLedger struct {
	next       domain.Ledger
	maxRetries uint
	newBackOff func() backoff.BackOff
	logger     logger.Interface
}

func NewRetryingLedger(next domain.Ledger, maxRetries uint, logger logger.Interface) *RetryingLedger {
	return &RetryingLedger{
		next:       next,
		maxRetries: maxRetries,
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			b.MaxInterval = time.Second
			return b
		},
	}
}

func (r *RetryingLedger) Debit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	return r.retry(ctx, "debit", requestID, func() (string, error) {
		return r.next.Debit(ctx, userID, requestID, amount)
	})
}

func (r *RetryingLedger) Credit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	return r.retry(ctx, "credit", requestID, func() (string, error) {
		return r.next.Credit(ctx, userID, requestID, amount)
	})
}

func (r *RetryingLedger) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return r.next.Balance(ctx, userID)
}

func (r *RetryingLedger) retry(ctx context.Context, op, requestID string, fn func() (string, error)) (string, error) {
	if r.maxRetries == 0 {
		return fn()
	}

	operation := func() (string, error) {
		txID, err := fn()
		if err != nil && !errors.Is(err, domain.ErrWalletUnavailable) {
			return "", backoff.Permanent(err)
		}
		return txID, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(r.maxRetries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warnw("wallet unavailable, retrying",
				"operation", op,
				"request_id", requestID,
				"error", err,
				"retry_in", next,
			)
		}),
	)
}
