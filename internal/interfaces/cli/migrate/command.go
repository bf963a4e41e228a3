package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"finsim/internal/infrastructure/database"
	"finsim/internal/infrastructure/migration"
	"finsim/internal/interfaces/cli/bootstrap"
	"finsim/internal/shared/logger"
)

var steps int

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply pending scripts, roll back and show status.`,
	}

	cmd.AddCommand(
		newUpCommand(flags),
		newDownCommand(flags),
		newStatusCommand(flags),
	)

	return cmd
}

func newUpCommand(flags *bootstrap.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(flags)
		},
	}
}

func newDownCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations. MySQL only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(flags)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(flags *bootstrap.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database. MySQL only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(flags)
		},
	}
}

// initEnv connects the database without building the container, so a
// fresh schema can be created before any repository touches it.
func initEnv(flags *bootstrap.Flags) (*migration.Manager, logger.Interface, error) {
	cfg, log, err := bootstrap.LoadConfig(flags)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return migration.NewManager(cfg.Database.Driver, log), log, nil
}

func runUp(flags *bootstrap.Flags) error {
	manager, log, err := initEnv(flags)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "strategy", manager.GetStrategy().GetName())

	if err := manager.Migrate(database.Get()); err != nil {
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(flags *bootstrap.Flags) error {
	manager, log, err := initEnv(flags)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "steps", steps)

	if err := manager.Down(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(flags *bootstrap.Flags) error {
	manager, log, err := initEnv(flags)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Strategy:        %s\n", manager.GetStrategy().GetName())

	version, err := manager.Status(database.Get())
	if err != nil {
		log.Errorw("failed to get migration status", "error", err)
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	fmt.Printf("  Current Version: %d\n", version)

	return nil
}
