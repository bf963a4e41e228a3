package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finsim/internal/interfaces/cli/autodebit"
	"finsim/internal/interfaces/cli/bootstrap"
	"finsim/internal/interfaces/cli/catalog"
	"finsim/internal/interfaces/cli/migrate"
	"finsim/internal/interfaces/cli/server"
	"finsim/internal/interfaces/cli/wallet"
	"finsim/internal/interfaces/cli/worker"
	"finsim/internal/shared/version"
)

func main() {
	flags := &bootstrap.Flags{}

	rootCmd := &cobra.Command{
		Use:           "finsim",
		Short:         "finsim - savings plan subscription simulator",
		Long:          `finsim runs installment savings subscriptions against a simulated wallet: HTTP API, scheduled auto-debit and operator tools.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Bind(rootCmd)

	rootCmd.AddCommand(
		server.NewCommand(flags),
		worker.NewCommand(flags),
		migrate.NewCommand(flags),
		autodebit.NewCommand(flags),
		catalog.NewCommand(flags),
		wallet.NewCommand(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print the build version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(version.String())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
