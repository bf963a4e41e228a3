package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finsim/internal/application/saving/dto"
	"finsim/internal/domain/saving"
	"finsim/internal/domain/wallet"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

type SettleMaturityCommand struct {
	UserID         uint
	SubscriptionID uint
}

// SettleMaturityUseCase pays out a matured subscription exactly once.
type SettleMaturityUseCase struct {
	subscriptionRepo saving.SubscriptionRepository
	paymentRepo      saving.PaymentHistoryRepository
	catalog          ProductCatalog
	ledger           wallet.Ledger
	txMgr            TxRunner
	clock            biztime.Clock
	logger           logger.Interface
}

func NewSettleMaturityUseCase(
	subscriptionRepo saving.SubscriptionRepository,
	paymentRepo saving.PaymentHistoryRepository,
	catalog ProductCatalog,
	ledger wallet.Ledger,
	txMgr TxRunner,
	clock biztime.Clock,
	logger logger.Interface,
) *SettleMaturityUseCase {
	return &SettleMaturityUseCase{
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		catalog:          catalog,
		ledger:           ledger,
		txMgr:            txMgr,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *SettleMaturityUseCase) Execute(ctx context.Context, cmd SettleMaturityCommand) (*dto.SettlementResult, error) {
	today := biztime.Today(uc.clock)

	sub, err := loadOwnedSubscription(ctx, uc.subscriptionRepo, cmd.UserID, cmd.SubscriptionID)
	if err != nil {
		return nil, err
	}
	return uc.settle(ctx, sub, today)
}

// SettleDue settles every matured ACTIVE subscription of every user and
// returns how many were paid out. Used by the auto-settle job.
func (uc *SettleMaturityUseCase) SettleDue(ctx context.Context) (int, error) {
	today := biztime.Today(uc.clock)

	subs, err := uc.subscriptionRepo.ListMaturedActive(ctx, 0, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list matured subscriptions: %w", err)
	}

	settled := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}
		if _, err := uc.settle(ctx, sub, today); err != nil {
			uc.logger.Errorw("failed to settle matured subscription",
				"error", err,
				"subscription_id", sub.ID(),
				"user_id", sub.UserID(),
			)
			continue
		}
		settled++
	}
	return settled, nil
}

func (uc *SettleMaturityUseCase) settle(ctx context.Context, sub *saving.Subscription, today time.Time) (*dto.SettlementResult, error) {
	if !sub.HasMatured(today) {
		return nil, fmt.Errorf("%w: subscription %d matures on %s",
			saving.ErrNotYetMatured, sub.ID(), biztime.FormatDate(sub.MaturityDate()))
	}
	if !sub.IsActive() {
		return nil, fmt.Errorf("%w: subscription %d is %s", saving.ErrInvalidSubscriptionState, sub.ID(), sub.Status())
	}

	// A rate missing from the catalog settles without interest. Any other
	// lookup failure aborts so the settlement can be retried.
	rate, err := uc.catalog.BestRate(ctx, sub.ProductOptionID(), sub.Term())
	switch {
	case err == nil:
	case errors.Is(err, saving.ErrUnsupportedTerm), errors.Is(err, saving.ErrProductNotFound):
		uc.logger.Warnw("rate unavailable, settling without interest",
			"error", err,
			"subscription_id", sub.ID(),
			"product_option_id", sub.ProductOptionID(),
		)
		rate = decimal.Zero
	default:
		uc.logger.Errorw("failed to look up maturity rate",
			"error", err,
			"subscription_id", sub.ID(),
			"product_option_id", sub.ProductOptionID(),
		)
		return nil, fmt.Errorf("failed to look up maturity rate: %w", err)
	}

	var settlement saving.Settlement
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		lines, err := uc.paymentRepo.ListBySubscription(txCtx, sub.ID())
		if err != nil {
			return fmt.Errorf("failed to load payment lines: %w", err)
		}
		summary := saving.Summarize(lines)

		settlement, err = saving.ComputeSettlement(summary.Principal, rate, sub.Term(), summary.Missed, today)
		if err != nil {
			return err
		}

		if settlement.Total.IsPositive() {
			txID, err := uc.ledger.Credit(txCtx, sub.UserID(), maturityRequestID(sub.ID()), settlement.Total)
			if err != nil {
				return fmt.Errorf("wallet credit failed: %w", err)
			}
			settlement.TransactionID = txID
		}

		if err := sub.Mature(settlement, today, uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			if errors.Is(err, saving.ErrConcurrentModification) {
				return fmt.Errorf("%w: subscription %d changed during settlement", saving.ErrInvalidSubscriptionState, sub.ID())
			}
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("saving subscription matured",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"principal", settlement.Principal.String(),
		"interest", settlement.Interest.String(),
		"total", settlement.Total.String(),
		"missed", settlement.MissedCount,
		"transaction_id", settlement.TransactionID,
	)

	return &dto.SettlementResult{
		SubscriptionID: sub.ID(),
		Principal:      settlement.Principal,
		Rate:           settlement.Rate,
		Interest:       settlement.Interest,
		Total:          settlement.Total,
		TransactionID:  settlement.TransactionID,
	}, nil
}
