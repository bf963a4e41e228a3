package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	walletUsecases "finsim/internal/application/wallet/usecases"
	"finsim/internal/interfaces/cli/bootstrap"
	"finsim/internal/shared/biztime"
)

var (
	userID    uint
	amount    string
	requestID string
	limit     int
)

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Simulated wallet tools",
	}
	cmd.PersistentFlags().UintVarP(&userID, "user", "u", 0, "Wallet owner (required)")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(newTopUpCommand(flags), newBalanceCommand(flags))
	return cmd
}

func newTopUpCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topup",
		Short: "Credit a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}

			app, err := bootstrap.Setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Container.UseCases.TopUp.Execute(cmd.Context(), walletUsecases.TopUpCommand{
				UserID:    userID,
				Amount:    value,
				RequestID: requestID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("credited %s to user %d (tx %s), balance %s\n",
				bootstrap.FormatAmount(value), userID, result.TransactionID, bootstrap.FormatAmount(result.Balance))
			return nil
		},
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount to credit (required)")
	cmd.Flags().StringVar(&requestID, "request-id", "", "Idempotency key (default: random)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newBalanceCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show balance and latest transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()

			ledger := app.Container.Ledger()
			balance, err := ledger.Balance(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Printf("user %d balance %s\n", userID, bootstrap.FormatAmount(balance))

			txs, err := ledger.Transactions(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}
			for _, tx := range txs {
				fmt.Printf("  %s  %-6s %14s  -> %14s  %s\n",
					tx.CreatedAt.In(biztime.Location()).Format("2006-01-02 15:04"),
					tx.Kind,
					bootstrap.FormatAmount(tx.Amount),
					bootstrap.FormatAmount(tx.BalanceAfter),
					tx.RequestID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of transactions to show")
	return cmd
}
