package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finsim/internal/domain/wallet"
	"finsim/internal/shared/logger"
)

type TopUpCommand struct {
	UserID uint
	Amount decimal.Decimal
	// RequestID makes the top-up idempotent; a random id is used when empty.
	RequestID string
}

type TopUpResult struct {
	TransactionID string
	Balance       decimal.Decimal
}

// TopUpUseCase credits a wallet outside of any subscription, for seeding
// simulations and support operations.
type TopUpUseCase struct {
	ledger wallet.Ledger
	logger logger.Interface
}

func NewTopUpUseCase(ledger wallet.Ledger, logger logger.Interface) *TopUpUseCase {
	return &TopUpUseCase{ledger: ledger, logger: logger}
}

func (uc *TopUpUseCase) Execute(ctx context.Context, cmd TopUpCommand) (*TopUpResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !cmd.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", wallet.ErrInvalidAmount, cmd.Amount)
	}

	requestID := cmd.RequestID
	if requestID == "" {
		requestID = "topup:" + uuid.NewString()
	}

	txID, err := uc.ledger.Credit(ctx, cmd.UserID, requestID, cmd.Amount)
	if err != nil {
		uc.logger.Errorw("wallet top-up failed", "error", err, "user_id", cmd.UserID)
		return nil, err
	}

	balance, err := uc.ledger.Balance(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	uc.logger.Infow("wallet topped up",
		"user_id", cmd.UserID,
		"amount", cmd.Amount.String(),
		"transaction_id", txID,
	)
	return &TopUpResult{TransactionID: txID, Balance: balance}, nil
}
