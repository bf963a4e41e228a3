package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finsim/internal/infrastructure/persistence/models"
	"finsim/internal/shared/logger"
)

var testLogger = logger.NewNop()

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.SavingSubscriptionModel{},
		&models.SavingPaymentHistoryModel{},
		&models.SavingProductModel{},
		&models.SavingProductOptionModel{},
		&models.SavingOptionRateModel{},
	)
	require.NoError(t, err)

	return db
}
