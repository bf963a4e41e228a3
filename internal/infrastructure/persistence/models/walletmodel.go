package models

import (
	"time"

	"github.com/shopspring/decimal"

	"finsim/internal/shared/constants"
)

type WalletModel struct {
	ID        uint            `gorm:"primarykey"`
	UserID    uint            `gorm:"not null;uniqueIndex"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	Version   int             `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WalletModel) TableName() string {
	return constants.TableWallets
}

// WalletTransactionModel is an applied ledger movement. RequestID makes
// every debit and credit idempotent.
type WalletTransactionModel struct {
	ID           uint            `gorm:"primarykey"`
	TxID         string          `gorm:"not null;size:32;uniqueIndex"`
	UserID       uint            `gorm:"not null;index"`
	RequestID    string          `gorm:"not null;size:128;uniqueIndex"`
	Kind         string          `gorm:"not null;size:10"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt    time.Time
}

func (WalletTransactionModel) TableName() string {
	return constants.TableWalletTransactions
}
