package migration

import (
	"finsim/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models GORM AutoMigrate manages, parents first.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SavingProductModel{},
		&models.SavingProductOptionModel{},
		&models.SavingOptionRateModel{},
		&models.WalletModel{},
		&models.WalletTransactionModel{},
		&models.SavingSubscriptionModel{},
		&models.SavingPaymentHistoryModel{},
	}
}
