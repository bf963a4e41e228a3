package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"finsim/internal/shared/config"
	"finsim/internal/shared/constants"
	"finsim/internal/shared/logger"
)

var allTables = []string{
	constants.TableSavingProducts,
	constants.TableSavingProductOptions,
	constants.TableSavingOptionRates,
	constants.TableWallets,
	constants.TableWalletTransactions,
	constants.TableSavingSubscriptions,
	constants.TableSavingPaymentHistories,
}

func TestNewManager_PicksStrategyByDriver(t *testing.T) {
	assert.Equal(t, "gorm_auto_migrate", NewManager(config.DriverSQLite, logger.NewNop()).GetStrategy().GetName())
	assert.Equal(t, "goose", NewManager(config.DriverMySQL, logger.NewNop()).GetStrategy().GetName())
}

func TestGormAutoMigrate_CreatesAllTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	m := NewManager(config.DriverSQLite, logger.NewNop())
	require.NoError(t, m.Migrate(db))

	for _, table := range allTables {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// idempotent
	require.NoError(t, m.Migrate(db))

	assert.Error(t, m.Down(db, 1))
	_, err = m.Status(db)
	assert.Error(t, err)
}

func TestEmbeddedScripts_CoverAllTables(t *testing.T) {
	var all strings.Builder
	err := fs.WalkDir(scriptsFS, scriptsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := scriptsFS.ReadFile(path)
		if err != nil {
			return err
		}
		body := string(data)
		assert.Contains(t, body, "-- +goose Up", path)
		assert.Contains(t, body, "-- +goose Down", path)
		all.WriteString(body)
		return nil
	})
	require.NoError(t, err)

	for _, table := range allTables {
		assert.Contains(t, all.String(), "CREATE TABLE "+table+" (", table)
		assert.Contains(t, all.String(), "DROP TABLE IF EXISTS "+table+";", table)
	}
}
