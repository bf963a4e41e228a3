// Package bootstrap builds the process-wide dependencies shared by every
// CLI command.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"finsim/internal/infrastructure/config"
	"finsim/internal/infrastructure/database"
	httpRouter "finsim/internal/interfaces/http"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

// Flags are the persistent flags understood by every command.
type Flags struct {
	Env        string
	ConfigPath string
	Debug      bool
}

// Bind registers the flags on cmd and lets the ENV variable override --env.
func (f *Flags) Bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVar(&f.Debug, "debug", false, "Attach source locations to every log line")
}

func (f *Flags) environment() string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return f.Env
}

// App is the initialized runtime of one command invocation.
type App struct {
	Config    *config.Config
	Container *httpRouter.Container
	Redis     *redis.Client
	Log       logger.Interface
	Env       string
}

// LoadConfig initializes config, logging and the business timezone only.
func LoadConfig(f *Flags) (*config.Config, logger.Interface, error) {
	env := f.environment()

	cfg, err := config.Load(env, f.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, f.Debug || cfg.Server.IsDebug()); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize business timezone for date boundary calculations
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// Setup loads config and connects the database, plus Redis when enabled,
// then builds the container.
func Setup(ctx context.Context, f *Flags) (*App, error) {
	cfg, log, err := LoadConfig(f)
	if err != nil {
		return nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = connectRedis(ctx, cfg, log)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
	}

	container, err := httpRouter.NewContainer(cfg, database.Get(), redisClient, log)
	if err != nil {
		closeRedis(redisClient)
		_ = database.Close()
		return nil, fmt.Errorf("failed to build container: %w", err)
	}

	return &App{
		Config:    cfg,
		Container: container,
		Redis:     redisClient,
		Log:       log,
		Env:       f.environment(),
	}, nil
}

func connectRedis(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	return client, nil
}

func closeRedis(client *redis.Client) {
	if client != nil {
		_ = client.Close()
	}
}

// Close releases Redis and the database.
func (a *App) Close() {
	closeRedis(a.Redis)
	if err := database.Close(); err != nil {
		a.Log.Errorw("failed to close database", "error", err)
	}
}
