package usecases

import (
	"context"
	"fmt"

	"finsim/internal/application/saving/dto"
	"finsim/internal/domain/saving"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	UserID         uint
	SubscriptionID uint
}

type GetSubscriptionUseCase struct {
	subscriptionRepo saving.SubscriptionRepository
	paymentRepo      saving.PaymentHistoryRepository
	catalog          ProductCatalog
	clock            biztime.Clock
	policy           saving.TickPolicy
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo saving.SubscriptionRepository,
	paymentRepo saving.PaymentHistoryRepository,
	catalog ProductCatalog,
	clock biztime.Clock,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		catalog:          catalog,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDetailDTO, error) {
	today := biztime.Today(uc.clock)

	sub, err := loadOwnedSubscription(ctx, uc.subscriptionRepo, query.UserID, query.SubscriptionID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.paymentRepo.ListBySubscription(ctx, sub.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load payment schedule: %w", err)
	}

	name, err := uc.catalog.ProductName(ctx, sub.ProductOptionID())
	if err != nil {
		uc.logger.Warnw("failed to resolve product name", "error", err, "product_option_id", sub.ProductOptionID())
	}

	tick := uc.policy.EstimateCurrentTick(sub.StartDate(), today, sub.Term())
	return dto.ToSubscriptionDetailDTO(sub, name, lines, tick), nil
}
