package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`
	Timezone string `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDebug reports whether the server runs in gin debug mode.
func (s *ServerConfig) IsDebug() bool {
	return s.Mode == "debug"
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverSQLite {
		return d.SQLitePath
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SavingConfig controls the background processing of savings subscriptions.
type SavingConfig struct {
	// AutoDebitCron is a cron expression evaluated in the business timezone.
	AutoDebitCron string `mapstructure:"auto_debit_cron"`
	// Concurrency bounds how many users are processed in parallel per batch.
	Concurrency int `mapstructure:"concurrency"`
	// RunGuardTTL is how long the same-day auto-debit marker lives in Redis.
	RunGuardTTL time.Duration `mapstructure:"run_guard_ttl"`
	// AutoSettle enables the periodic maturity settlement job.
	AutoSettle     bool   `mapstructure:"auto_settle"`
	AutoSettleCron string `mapstructure:"auto_settle_cron"`
	// WalletRetries is the number of retries for transient wallet failures.
	WalletRetries uint `mapstructure:"wallet_retries"`
	// SeedFile is the catalog seed loaded by `catalog seed` when no --file is given.
	SeedFile string `mapstructure:"seed_file"`
}

// SimulationConfig pins the service-wide date for demos and replay.
type SimulationConfig struct {
	// FixedToday, when set (YYYY-MM-DD), replaces the wall clock.
	FixedToday string `mapstructure:"fixed_today"`
}
