package models

import (
	"time"

	"github.com/shopspring/decimal"

	"finsim/internal/shared/constants"
)

type SavingProductModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:100;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SavingProductModel) TableName() string {
	return constants.TableSavingProducts
}

// SavingProductOptionModel is a subscribable variant of a product. RateType
// keeps the raw catalog label.
type SavingProductOptionModel struct {
	ID         uint   `gorm:"primarykey"`
	ProductID  uint   `gorm:"not null;uniqueIndex:uk_saving_option_label,priority:1"`
	RateType   string `gorm:"not null;size:32;default:'';uniqueIndex:uk_saving_option_label,priority:2"`
	Popularity int64  `gorm:"not null;default:0"`
	Version    int    `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Product SavingProductModel      `gorm:"foreignKey:ProductID"`
	Rates   []SavingOptionRateModel `gorm:"foreignKey:OptionID"`
}

func (SavingProductOptionModel) TableName() string {
	return constants.TableSavingProductOptions
}

type SavingOptionRateModel struct {
	ID               uint             `gorm:"primarykey"`
	OptionID         uint             `gorm:"not null;uniqueIndex:uk_saving_option_term,priority:1"`
	Term             int              `gorm:"not null;uniqueIndex:uk_saving_option_term,priority:2"`
	BaseRate         decimal.Decimal  `gorm:"type:decimal(8,4);not null"`
	PreferentialRate *decimal.Decimal `gorm:"type:decimal(8,4)"`
}

func (SavingOptionRateModel) TableName() string {
	return constants.TableSavingOptionRates
}
