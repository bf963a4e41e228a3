package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"finsim/internal/application/saving/dto"
	"finsim/internal/domain/saving"
	vo "finsim/internal/domain/saving/valueobjects"
	"finsim/internal/domain/wallet"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

const (
	defaultAutoDebitConcurrency = 4
	releaseTimeout              = 2 * time.Second
)

// AutoDebitUseCase collects the next due installment of every active
// subscription. Each subscription is processed in its own transaction so
// one failure never affects the others.
type AutoDebitUseCase struct {
	subscriptionRepo saving.SubscriptionRepository
	paymentRepo      saving.PaymentHistoryRepository
	ledger           wallet.Ledger
	txMgr            TxRunner
	clock            biztime.Clock
	logger           logger.Interface

	guard       RunGuard
	concurrency int
}

type AutoDebitOption func(*AutoDebitUseCase)

// WithRunGuard skips users whose run for the day was already claimed.
// Only the batch Execute consults the guard.
func WithRunGuard(guard RunGuard) AutoDebitOption {
	return func(uc *AutoDebitUseCase) {
		uc.guard = guard
	}
}

// WithConcurrency bounds how many users a batch processes in parallel.
func WithConcurrency(n int) AutoDebitOption {
	return func(uc *AutoDebitUseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

func NewAutoDebitUseCase(
	subscriptionRepo saving.SubscriptionRepository,
	paymentRepo saving.PaymentHistoryRepository,
	ledger wallet.Ledger,
	txMgr TxRunner,
	clock biztime.Clock,
	logger logger.Interface,
	opts ...AutoDebitOption,
) *AutoDebitUseCase {
	uc := &AutoDebitUseCase{
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		ledger:           ledger,
		txMgr:            txMgr,
		clock:            clock,
		logger:           logger,
		concurrency:      defaultAutoDebitConcurrency,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RunForUser processes every ACTIVE subscription of the user sequentially.
// Errors are never surfaced; they are reflected in the outcomes and logs.
func (uc *AutoDebitUseCase) RunForUser(ctx context.Context, userID uint) []dto.AutoDebitOutcome {
	outcomes, _ := uc.runForUser(ctx, userID, biztime.Today(uc.clock))
	return outcomes
}

// Execute runs auto-debit for every user holding an ACTIVE subscription.
// It returns the number of installments attempted (paid or missed).
func (uc *AutoDebitUseCase) Execute(ctx context.Context) (int, error) {
	userIDs, err := uc.subscriptionRepo.ListActiveUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users with active subscriptions: %w", err)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	today := biztime.Today(uc.clock)
	var attempted atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if !uc.claim(gctx, userID, today) {
				return nil
			}
			outcomes, incomplete := uc.runForUser(gctx, userID, today)
			for _, o := range outcomes {
				if o.Result != dto.AutoDebitSkipped {
					attempted.Add(1)
				}
			}
			if incomplete || gctx.Err() != nil {
				uc.release(userID, today)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(attempted.Load()), err
	}

	uc.logger.Infow("auto-debit batch completed",
		"date", biztime.FormatDate(today),
		"users", len(userIDs),
		"attempted", attempted.Load(),
	)
	return int(attempted.Load()), nil
}

// claim consults the run guard. A guard failure does not block the run:
// the status-guarded line update already prevents double payment.
func (uc *AutoDebitUseCase) claim(ctx context.Context, userID uint, today time.Time) bool {
	if uc.guard == nil {
		return true
	}
	ok, err := uc.guard.TryAcquire(ctx, userID, today)
	if err != nil {
		uc.logger.Warnw("auto-debit run guard unavailable", "error", err, "user_id", userID)
		return true
	}
	if !ok {
		uc.logger.Debugw("auto-debit already ran today", "user_id", userID)
	}
	return ok
}

// release drops the day claim so a later run retries the user. It uses a
// fresh context because the batch context may already be canceled.
func (uc *AutoDebitUseCase) release(userID uint, today time.Time) {
	if uc.guard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := uc.guard.Release(ctx, userID, today); err != nil {
		uc.logger.Warnw("failed to release auto-debit run guard", "error", err, "user_id", userID)
		return
	}
	uc.logger.Debugw("auto-debit run guard released", "user_id", userID)
}

// runForUser reports incomplete when a subscription failed before its line
// was settled, so nothing was recorded for it today.
func (uc *AutoDebitUseCase) runForUser(ctx context.Context, userID uint, today time.Time) (outcomes []dto.AutoDebitOutcome, incomplete bool) {
	subs, err := uc.subscriptionRepo.ListByUserAndStatus(ctx, userID, vo.StatusActive)
	if err != nil {
		uc.logger.Errorw("failed to list active subscriptions", "error", err, "user_id", userID)
		return nil, true
	}
	if len(subs) == 0 {
		return nil, false
	}

	outcomes = make([]dto.AutoDebitOutcome, 0, len(subs))
	for _, sub := range subs {
		outcome, err := uc.processSubscription(ctx, sub, today)
		if err != nil {
			incomplete = true
		}
		uc.logOutcome(userID, outcome)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, incomplete
}

// processSubscription settles at most one line. The subscription is read
// again under a row lock so a cancel committed after the listing wins.
// A non-nil error means the transaction rolled back.
func (uc *AutoDebitUseCase) processSubscription(ctx context.Context, listed *saving.Subscription, today time.Time) (dto.AutoDebitOutcome, error) {
	outcome := dto.AutoDebitOutcome{SubscriptionID: listed.ID()}

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByIDForUpdate(txCtx, listed.ID())
		if err != nil {
			return fmt.Errorf("failed to reload subscription: %w", err)
		}
		if !sub.IsActive() {
			outcome.Result, outcome.Reason = dto.AutoDebitSkipped, "subscription is "+sub.Status().String()
			return nil
		}

		line, err := uc.paymentRepo.GetNextPlanned(txCtx, sub.ID())
		if err != nil {
			return fmt.Errorf("failed to load next planned payment: %w", err)
		}
		if line == nil {
			outcome.Result, outcome.Reason = dto.AutoDebitSkipped, "no planned payment"
			return nil
		}
		outcome.Cycle = line.Cycle()
		if !line.IsDue(today) {
			outcome.Result, outcome.Reason = dto.AutoDebitSkipped, "not due"
			return nil
		}
		if !line.HasExpectedAmount() {
			uc.logger.Errorw("planned payment has no expected amount",
				"subscription_id", sub.ID(),
				"cycle", line.Cycle(),
			)
			outcome.Result, outcome.Reason = dto.AutoDebitSkipped, "missing expected amount"
			return nil
		}

		requestID := autoDebitRequestID(sub.ID(), line.Cycle(), uuid.NewString())
		txID, debitErr := uc.ledger.Debit(txCtx, sub.UserID(), requestID, line.ExpectedAmount())
		now := uc.clock.Now()

		if debitErr == nil {
			if err := line.MarkPaid(line.ExpectedAmount(), txID, now); err != nil {
				return err
			}
			if err := uc.paymentRepo.UpdateSettlement(txCtx, line); err != nil {
				return err
			}
			outcome.Result, outcome.TransactionID = dto.AutoDebitSuccess, txID
			return nil
		}

		if err := line.MarkMissed(missReason(debitErr), now); err != nil {
			return err
		}
		if err := uc.paymentRepo.UpdateSettlement(txCtx, line); err != nil {
			return err
		}
		outcome.Result, outcome.Reason = dto.AutoDebitFailure, missReason(debitErr)

		missed, err := uc.paymentRepo.CountByStatus(txCtx, sub.ID(), vo.PaymentMissed)
		if err != nil {
			return fmt.Errorf("failed to count missed payments: %w", err)
		}
		if saving.ShouldTerminate(int(missed)) {
			if err := sub.Terminate(now); err != nil {
				return err
			}
			if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
				return fmt.Errorf("failed to terminate subscription: %w", err)
			}
			outcome.Terminated = true
		}
		return nil
	})
	if err != nil {
		return dto.AutoDebitOutcome{
			SubscriptionID: listed.ID(),
			Cycle:          outcome.Cycle,
			Result:         dto.AutoDebitFailure,
			Reason:         err.Error(),
		}, err
	}
	return outcome, nil
}

func (uc *AutoDebitUseCase) logOutcome(userID uint, o dto.AutoDebitOutcome) {
	fields := []any{
		"user_id", userID,
		"subscription_id", o.SubscriptionID,
		"cycle", o.Cycle,
		"result", o.Result,
	}
	if o.Reason != "" {
		fields = append(fields, "reason", o.Reason)
	}
	switch {
	case o.Terminated:
		uc.logger.Warnw("subscription terminated after missed payments", fields...)
	case o.Result == dto.AutoDebitFailure:
		uc.logger.Warnw("auto-debit failed", fields...)
	case o.Result == dto.AutoDebitSuccess:
		uc.logger.Infow("auto-debit succeeded", append(fields, "transaction_id", o.TransactionID)...)
	default:
		uc.logger.Debugw("auto-debit skipped", fields...)
	}
}

func missReason(err error) string {
	if errors.Is(err, wallet.ErrInsufficientFunds) {
		return "insufficient funds"
	}
	return fmt.Sprintf("wallet failure: %v", err)
}
