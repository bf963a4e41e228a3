package usecases

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"finsim/internal/application/saving/dto"
	"finsim/internal/domain/saving"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

type OpenSubscriptionCommand struct {
	UserID          uint
	ProductOptionID uint
	Term            int
	AutoDebitAmount decimal.Decimal
}

// OpenSubscriptionUseCase creates a subscription together with its whole
// payment schedule.
type OpenSubscriptionUseCase struct {
	subscriptionRepo saving.SubscriptionRepository
	paymentRepo      saving.PaymentHistoryRepository
	catalog          ProductCatalog
	txMgr            TxRunner
	clock            biztime.Clock
	policy           saving.TickPolicy
	logger           logger.Interface
}

func NewOpenSubscriptionUseCase(
	subscriptionRepo saving.SubscriptionRepository,
	paymentRepo saving.PaymentHistoryRepository,
	catalog ProductCatalog,
	txMgr TxRunner,
	clock biztime.Clock,
	logger logger.Interface,
) *OpenSubscriptionUseCase {
	return &OpenSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		catalog:          catalog,
		txMgr:            txMgr,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *OpenSubscriptionUseCase) Execute(ctx context.Context, cmd OpenSubscriptionCommand) (*dto.OpenSubscriptionResult, error) {
	terms, err := uc.catalog.SupportedTerms(ctx, cmd.ProductOptionID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(terms, cmd.Term) {
		return nil, fmt.Errorf("%w: term %d, supported %v", saving.ErrUnsupportedTerm, cmd.Term, terms)
	}
	if !cmd.AutoDebitAmount.IsPositive() {
		return nil, fmt.Errorf("%w: auto debit amount %s", saving.ErrInvalidAmount, cmd.AutoDebitAmount)
	}

	today := biztime.Today(uc.clock)
	sub, err := saving.NewSubscription(cmd.UserID, cmd.ProductOptionID, cmd.Term, cmd.AutoDebitAmount, today, uc.policy)
	if err != nil {
		return nil, err
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.Create(txCtx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		lines, err := saving.BuildSchedule(sub, uc.policy)
		if err != nil {
			return err
		}
		if err := uc.paymentRepo.CreateBatch(txCtx, lines); err != nil {
			return fmt.Errorf("failed to create payment schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to open saving subscription",
			"error", err,
			"user_id", cmd.UserID,
			"product_option_id", cmd.ProductOptionID,
		)
		return nil, err
	}

	if err := uc.catalog.IncrementPopularity(ctx, cmd.ProductOptionID); err != nil {
		uc.logger.Warnw("failed to increment product popularity",
			"error", err,
			"product_option_id", cmd.ProductOptionID,
		)
	}

	uc.logger.Infow("saving subscription opened",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"term", sub.Term(),
		"maturity_date", biztime.FormatDate(sub.MaturityDate()),
	)

	return &dto.OpenSubscriptionResult{
		SubscriptionID: sub.ID(),
		StartDate:      biztime.FormatDate(sub.StartDate()),
		MaturityDate:   biztime.FormatDate(sub.MaturityDate()),
	}, nil
}
