package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"finsim/internal/application/saving/dto"
	"finsim/internal/domain/saving"
	"finsim/internal/domain/wallet"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

type DepositNextCommand struct {
	UserID         uint
	SubscriptionID uint
	// Amount overrides the expected amount when set.
	Amount *decimal.Decimal
}

// DepositNextUseCase lets a user pay the installment due today by hand.
type DepositNextUseCase struct {
	subscriptionRepo saving.SubscriptionRepository
	paymentRepo      saving.PaymentHistoryRepository
	ledger           wallet.Ledger
	txMgr            TxRunner
	clock            biztime.Clock
	policy           saving.TickPolicy
	logger           logger.Interface
}

func NewDepositNextUseCase(
	subscriptionRepo saving.SubscriptionRepository,
	paymentRepo saving.PaymentHistoryRepository,
	ledger wallet.Ledger,
	txMgr TxRunner,
	clock biztime.Clock,
	logger logger.Interface,
) *DepositNextUseCase {
	return &DepositNextUseCase{
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		ledger:           ledger,
		txMgr:            txMgr,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *DepositNextUseCase) Execute(ctx context.Context, cmd DepositNextCommand) (*dto.DepositResult, error) {
	today := biztime.Today(uc.clock)

	sub, err := loadOwnedSubscription(ctx, uc.subscriptionRepo, cmd.UserID, cmd.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return nil, fmt.Errorf("%w: subscription %d is %s", saving.ErrInvalidSubscriptionState, sub.ID(), sub.Status())
	}

	if err := uc.backfillIfEmpty(ctx, sub); err != nil {
		return nil, err
	}

	var result *dto.DepositResult
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		current, err := lockOwnedSubscription(txCtx, uc.subscriptionRepo, cmd.UserID, sub.ID())
		if err != nil {
			return err
		}
		if !current.IsActive() {
			return fmt.Errorf("%w: subscription %d is %s", saving.ErrInvalidSubscriptionState, current.ID(), current.Status())
		}

		line, err := uc.paymentRepo.GetNextPlannedFrom(txCtx, sub.ID(), today)
		if err != nil {
			return fmt.Errorf("failed to load next planned payment: %w", err)
		}
		if line == nil {
			return fmt.Errorf("%w: subscription %d", saving.ErrNoNextPlannedPayment, sub.ID())
		}

		amount := line.ExpectedAmount()
		if cmd.Amount != nil {
			amount = *cmd.Amount
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: deposit amount %s", saving.ErrInvalidAmount, amount)
		}
		if !line.DueDate().Equal(today) {
			return fmt.Errorf("%w: cycle %d is due on %s, today is %s",
				saving.ErrPolicyViolation, line.Cycle(),
				biztime.FormatDate(line.DueDate()), biztime.FormatDate(today))
		}

		txID, err := uc.ledger.Debit(txCtx, sub.UserID(), manualDepositRequestID(sub.ID(), today), amount)
		if err != nil {
			return fmt.Errorf("wallet debit failed: %w", err)
		}

		if err := line.MarkPaid(amount, txID, uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.paymentRepo.UpdateSettlement(txCtx, line); err != nil {
			return err
		}

		result = &dto.DepositResult{
			SubscriptionID: sub.ID(),
			Cycle:          line.Cycle(),
			Amount:         amount,
			Status:         line.Status().String(),
			TransactionID:  txID,
		}
		return nil
	})
	if err != nil {
		uc.logger.Warnw("manual deposit rejected",
			"error", err,
			"subscription_id", cmd.SubscriptionID,
			"user_id", cmd.UserID,
		)
		return nil, err
	}

	uc.logger.Infow("manual deposit recorded",
		"subscription_id", result.SubscriptionID,
		"cycle", result.Cycle,
		"status", result.Status,
		"transaction_id", result.TransactionID,
	)
	return result, nil
}

// backfillIfEmpty rebuilds the schedule of subscriptions created before
// schedules were persisted. It commits on its own so a rejected deposit does
// not undo the repair.
func (uc *DepositNextUseCase) backfillIfEmpty(ctx context.Context, sub *saving.Subscription) error {
	return uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		count, err := uc.paymentRepo.CountBySubscription(txCtx, sub.ID())
		if err != nil {
			return fmt.Errorf("failed to count payment lines: %w", err)
		}
		if count > 0 {
			return nil
		}

		lines, err := saving.BuildSchedule(sub, uc.policy)
		if err != nil {
			return err
		}
		if err := uc.paymentRepo.CreateBatch(txCtx, lines); err != nil {
			return fmt.Errorf("failed to backfill payment schedule: %w", err)
		}
		uc.logger.Warnw("backfilled missing payment schedule",
			"subscription_id", sub.ID(),
			"lines", len(lines),
			"first_due_date", biztime.FormatDate(uc.policy.FirstDueDate(sub.StartDate())),
		)
		return nil
	})
}
