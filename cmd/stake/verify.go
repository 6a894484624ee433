package main

import (
	"context"
	"fmt"

	"stake-tracker/internal/app"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay the event log against the balance",
	Long: `Verify the ledger's core invariant: the balance must equal the
initial points minus the sum of all deductions since initialization.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		report, err := a.Ledger().VerifyBalance(context.Background())
		if err != nil {
			return fmt.Errorf("verify balance: %w", err)
		}

		fmt.Printf("Initial points:  %.2f\n", report.InitialPoints)
		fmt.Printf("Total deducted:  %.2f\n", report.TotalDeducted)
		fmt.Printf("Expected:        %.2f\n", report.ExpectedBalance)
		fmt.Printf("Stored balance:  %.2f\n", report.Balance)

		if !report.Consistent {
			return fmt.Errorf("ledger is INCONSISTENT: stored balance diverges from event log replay")
		}

		fmt.Println("Ledger is consistent.")
		return nil
	})
}
