package usecases

import (
	"context"

	"finsim/internal/application/saving/dto"
)

// Executor interfaces let the transport layer depend on behavior only.

type OpenSubscriptionExecutor interface {
	Execute(ctx context.Context, cmd OpenSubscriptionCommand) (*dto.OpenSubscriptionResult, error)
}

type CancelSubscriptionExecutor interface {
	Execute(ctx context.Context, cmd CancelSubscriptionCommand) error
}

type DepositNextExecutor interface {
	Execute(ctx context.Context, cmd DepositNextCommand) (*dto.DepositResult, error)
}

type SettleMaturityExecutor interface {
	Execute(ctx context.Context, cmd SettleMaturityCommand) (*dto.SettlementResult, error)
}

type GetSubscriptionExecutor interface {
	Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDetailDTO, error)
}

type ListPendingMaturitiesExecutor interface {
	Execute(ctx context.Context, userID uint) ([]dto.PendingMaturityDTO, error)
}

type PreviewInterestExecutor interface {
	Execute(ctx context.Context, query PreviewInterestQuery) (*dto.InterestQuoteDTO, error)
}

// AutoDebitRunner runs the auto-debit pass for a single user.
type AutoDebitRunner interface {
	RunForUser(ctx context.Context, userID uint) []dto.AutoDebitOutcome
}

var (
	_ OpenSubscriptionExecutor      = (*OpenSubscriptionUseCase)(nil)
	_ CancelSubscriptionExecutor    = (*CancelSubscriptionUseCase)(nil)
	_ DepositNextExecutor           = (*DepositNextUseCase)(nil)
	_ SettleMaturityExecutor        = (*SettleMaturityUseCase)(nil)
	_ GetSubscriptionExecutor       = (*GetSubscriptionUseCase)(nil)
	_ ListPendingMaturitiesExecutor = (*ListPendingMaturitiesUseCase)(nil)
	_ PreviewInterestExecutor       = (*PreviewInterestUseCase)(nil)
	_ AutoDebitRunner               = (*AutoDebitUseCase)(nil)
)
