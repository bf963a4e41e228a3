package usecases

import (
	"context"
	"fmt"

	"finsim/internal/application/saving/dto"
	"finsim/internal/domain/saving"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

// ListPendingMaturitiesUseCase lists subscriptions ready to be settled.
type ListPendingMaturitiesUseCase struct {
	subscriptionRepo saving.SubscriptionRepository
	catalog          ProductCatalog
	clock            biztime.Clock
	logger           logger.Interface
}

func NewListPendingMaturitiesUseCase(
	subscriptionRepo saving.SubscriptionRepository,
	catalog ProductCatalog,
	clock biztime.Clock,
	logger logger.Interface,
) *ListPendingMaturitiesUseCase {
	return &ListPendingMaturitiesUseCase{
		subscriptionRepo: subscriptionRepo,
		catalog:          catalog,
		clock:            clock,
		logger:           logger,
	}
}

// Execute returns ACTIVE subscriptions of the user whose maturity date is on
// or before today, earliest first.
func (uc *ListPendingMaturitiesUseCase) Execute(ctx context.Context, userID uint) ([]dto.PendingMaturityDTO, error) {
	today := biztime.Today(uc.clock)

	subs, err := uc.subscriptionRepo.ListMaturedActive(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending maturities: %w", err)
	}

	names := make(map[uint]string)
	result := make([]dto.PendingMaturityDTO, 0, len(subs))
	for _, sub := range subs {
		name, ok := names[sub.ProductOptionID()]
		if !ok {
			name, err = uc.catalog.ProductName(ctx, sub.ProductOptionID())
			if err != nil {
				uc.logger.Warnw("failed to resolve product name",
					"error", err,
					"product_option_id", sub.ProductOptionID(),
				)
			}
			names[sub.ProductOptionID()] = name
		}
		result = append(result, dto.ToPendingMaturityDTO(sub, name))
	}
	return result, nil
}
