package autodebit

import (
	"fmt"

	"github.com/spf13/cobra"

	"finsim/internal/interfaces/cli/bootstrap"
)

var userID uint

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autodebit",
		Short: "Auto-debit operations",
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Collect today's installments",
		Long:  `Collect today's installment of every ACTIVE subscription, for one user with --user or for everyone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()

			if userID == 0 {
				attempted, err := app.Container.UseCases.AutoDebit.Execute(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("auto-debit attempted %d installments\n", attempted)
				return nil
			}

			outcomes := app.Container.UseCases.AutoDebit.RunForUser(cmd.Context(), userID)
			if len(outcomes) == 0 {
				fmt.Printf("user %d has no active subscriptions\n", userID)
				return nil
			}
			for _, o := range outcomes {
				line := fmt.Sprintf("subscription %d: %s", o.SubscriptionID, o.Result)
				if o.Cycle > 0 {
					line += fmt.Sprintf(" cycle=%d", o.Cycle)
				}
				if o.Reason != "" {
					line += " reason=" + o.Reason
				}
				if o.Terminated {
					line += " (terminated)"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	run.Flags().UintVarP(&userID, "user", "u", 0, "Only process this user")

	cmd.AddCommand(run)
	return cmd
}
