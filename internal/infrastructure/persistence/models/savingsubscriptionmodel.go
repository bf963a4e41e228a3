package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"finsim/internal/shared/constants"
)

// SavingSubscriptionModel is the persistence shape of a savings plan.
type SavingSubscriptionModel struct {
	ID              uint            `gorm:"primarykey"`
	UserID          uint            `gorm:"not null;index:idx_saving_sub_user_status,priority:1"`
	ProductOptionID uint            `gorm:"not null;index"`
	Term            int             `gorm:"not null"`
	AutoDebitAmount decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	MaturityDate    time.Time       `gorm:"type:date;not null;index:idx_saving_sub_maturity"`
	Status          string          `gorm:"not null;size:20;index:idx_saving_sub_user_status,priority:2"`
	CanceledAt      *time.Time
	TerminatedAt    *time.Time
	MaturedAt       *time.Time
	Settlement      datatypes.JSON `gorm:"comment:payout snapshot written at maturity"`
	Version         int            `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SavingSubscriptionModel) TableName() string {
	return constants.TableSavingSubscriptions
}

func (s *SavingSubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
