package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finsim/internal/domain/wallet"
	"finsim/internal/shared/logger"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Debit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	args := m.Called(ctx, userID, requestID, amount)
	return args.String(0), args.Error(1)
}

func (m *mockLedger) Credit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	args := m.Called(ctx, userID, requestID, amount)
	return args.String(0), args.Error(1)
}

func (m *mockLedger) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func TestTopUpUseCase_Execute(t *testing.T) {
	ledger := new(mockLedger)
	uc := NewTopUpUseCase(ledger, logger.NewNop())
	amount := decimal.NewFromInt(50000)

	ledger.On("Credit", mock.Anything, uint(3), mock.MatchedBy(func(id string) bool {
		return strings.HasPrefix(id, "topup:")
	}), amount).Return("wtx_abc", nil).Once()
	ledger.On("Balance", mock.Anything, uint(3)).Return(decimal.NewFromInt(150000), nil).Once()

	result, err := uc.Execute(context.Background(), TopUpCommand{UserID: 3, Amount: amount})
	require.NoError(t, err)
	assert.Equal(t, "wtx_abc", result.TransactionID)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(150000)))
	ledger.AssertExpectations(t)
}

func TestTopUpUseCase_ExplicitRequestID(t *testing.T) {
	ledger := new(mockLedger)
	uc := NewTopUpUseCase(ledger, logger.NewNop())
	amount := decimal.NewFromInt(10)

	ledger.On("Credit", mock.Anything, uint(3), "seed-1", amount).Return("wtx_1", nil).Once()
	ledger.On("Balance", mock.Anything, uint(3)).Return(amount, nil).Once()

	_, err := uc.Execute(context.Background(), TopUpCommand{UserID: 3, Amount: amount, RequestID: "seed-1"})
	require.NoError(t, err)
	ledger.AssertExpectations(t)
}

func TestTopUpUseCase_Rejects(t *testing.T) {
	ledger := new(mockLedger)
	uc := NewTopUpUseCase(ledger, logger.NewNop())

	_, err := uc.Execute(context.Background(), TopUpCommand{Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)

	_, err = uc.Execute(context.Background(), TopUpCommand{UserID: 1, Amount: decimal.Zero})
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)

	ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTopUpUseCase_LedgerFailure(t *testing.T) {
	ledger := new(mockLedger)
	uc := NewTopUpUseCase(ledger, logger.NewNop())

	ledger.On("Credit", mock.Anything, uint(1), mock.Anything, mock.Anything).
		Return("", wallet.ErrWalletUnavailable).Once()

	_, err := uc.Execute(context.Background(), TopUpCommand{UserID: 1, Amount: decimal.NewFromInt(5)})
	assert.True(t, errors.Is(err, wallet.ErrWalletUnavailable))
	ledger.AssertNotCalled(t, "Balance", mock.Anything, mock.Anything)
}
