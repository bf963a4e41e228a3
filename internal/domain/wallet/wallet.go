// Package wallet defines the contract of the idempotent wallet ledger.
package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrRequestConflict means a request id was replayed with a different
	// user, kind or amount.
	ErrRequestConflict   = errors.New("request id already used for a different operation")
	ErrWalletUnavailable = errors.New("wallet unavailable")
	ErrInvalidAmount     = errors.New("invalid wallet amount")
)

type Kind string

const (
	KindDebit  Kind = "debit"
	KindCredit Kind = "credit"
)

// Transaction is one applied ledger movement.
type Transaction struct {
	TxID         string
	UserID       uint
	RequestID    string
	Kind         Kind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// Ledger moves money in and out of user wallets. Replaying a request id
// returns the original transaction id without moving money again.
type Ledger interface {
	Debit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error)
	Credit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error)
	Balance(ctx context.Context, userID uint) (decimal.Decimal, error)
}
