package models

import (
	"time"

	"github.com/shopspring/decimal"

	"finsim/internal/shared/constants"
)

// SavingPaymentHistoryModel is one scheduled installment of a subscription.
type SavingPaymentHistoryModel struct {
	ID             uint             `gorm:"primarykey"`
	SubscriptionID uint             `gorm:"not null;uniqueIndex:uk_saving_payment_cycle,priority:1"`
	Cycle          int              `gorm:"not null;uniqueIndex:uk_saving_payment_cycle,priority:2"`
	DueDate        time.Time        `gorm:"type:date;not null;index"`
	ExpectedAmount decimal.Decimal  `gorm:"type:decimal(20,2);not null"`
	Status         string           `gorm:"not null;size:20;index"`
	PaidAmount     *decimal.Decimal `gorm:"type:decimal(20,2)"`
	WalletTxID     *string          `gorm:"size:64"`
	Note           *string          `gorm:"size:255"`
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SavingPaymentHistoryModel) TableName() string {
	return constants.TableSavingPaymentHistories
}
