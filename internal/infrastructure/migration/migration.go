package migration

import (
	"fmt"

	"gorm.io/gorm"

	"finsim/internal/shared/config"
	"finsim/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for MySQL and GORM AutoMigrate for SQLite.
func NewManager(driver string, log logger.Interface) *Manager {
	var strategy Strategy
	switch driver {
	case config.DriverSQLite:
		strategy = NewGormAutoMigrateStrategy(log)
	default:
		strategy = NewGooseStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB, models ...interface{}) error {
	m.logger.Infow("starting database migration",
		"strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db, models...); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully",
		"strategy", m.strategy.GetName())

	return nil
}

// Down rolls back steps versions. Only versioned strategies support it.
func (m *Manager) Down(db *gorm.DB, steps int) error {
	v, ok := m.strategy.(Versioned)
	if !ok {
		return fmt.Errorf("down migration is not supported by strategy %s", m.strategy.GetName())
	}
	return v.MigrateDown(db, steps)
}

// Status prints the goose status table, or reports that the schema is
// derived from models.
func (m *Manager) Status(db *gorm.DB) (int64, error) {
	v, ok := m.strategy.(Versioned)
	if !ok {
		return 0, fmt.Errorf("status is not supported by strategy %s", m.strategy.GetName())
	}
	version, err := v.GetVersion(db)
	if err != nil {
		return 0, err
	}
	return version, v.Status(db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
