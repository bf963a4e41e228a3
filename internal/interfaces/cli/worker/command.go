package worker

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"finsim/internal/infrastructure/scheduler"
	"finsim/internal/interfaces/cli/bootstrap"
)

var runOnStart bool

// NewCommand starts the background worker that runs the savings batch jobs.
func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run scheduled auto-debit and settlement jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&runOnStart, "run-now", false, "Run the auto-debit batch once right after start")

	return cmd
}

func run(cmd *cobra.Command, flags *bootstrap.Flags) error {
	app, err := bootstrap.Setup(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer app.Close()

	log := app.Log.Named("worker")
	savingCfg := app.Config.Saving

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := manager.RegisterAutoDebitJob(savingCfg.AutoDebitCron, app.Container.UseCases.AutoDebit); err != nil {
		return err
	}
	if savingCfg.AutoSettle {
		if err := manager.RegisterAutoSettleJob(savingCfg.AutoSettleCron, scheduler.BatchJobFunc(app.Container.SettleDueJob())); err != nil {
			return err
		}
	}

	manager.Start()
	defer func() {
		if err := manager.Stop(); err != nil {
			log.Errorw("failed to stop scheduler", "error", err)
		}
	}()

	if runOnStart {
		if err := manager.RunNow("auto-debit"); err != nil {
			log.Warnw("initial auto-debit run failed", "error", err)
		}
	}

	log.Infow("worker started",
		"auto_debit_cron", savingCfg.AutoDebitCron,
		"auto_settle", savingCfg.AutoSettle,
		"redis_guard", app.Redis != nil)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Infow("received signal, shutting down", "signal", sig.String())
	return nil
}
