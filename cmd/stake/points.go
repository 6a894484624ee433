package main

import (
	"context"
	"fmt"
	"strconv"

	"stake-tracker/internal/app"

	"github.com/spf13/cobra"
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Show the point pool",
	RunE:  runPoints,
}

var pointsResetCmd = &cobra.Command{
	Use:   "reset <points>",
	Short: "Re-base the point pool to a new value",
	Long: `Re-base the non-renewing point pool. This is the only way points
ever increase: it records a new initial value and the replay check counts
deductions from this moment forward. Prior events stay in the audit trail.`,
	Args: cobra.ExactArgs(1),
	RunE: runPointsReset,
}

func init() {
	pointsCmd.AddCommand(pointsResetCmd)
	rootCmd.AddCommand(pointsCmd)
}

func runPoints(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		balance, err := a.Ledger().CurrentBalance(context.Background())
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}

		fmt.Printf("Points:  %.2f\n", balance.Points)
		fmt.Printf("Initial: %.2f (since %s)\n",
			balance.InitialPoints, balance.InitializedAt.Format("2006-01-02 15:04"))

		if balance.Points < 0 {
			fmt.Println("Warning: the pool is NEGATIVE")
		}
		return nil
	})
}

func runPointsReset(cmd *cobra.Command, args []string) error {
	points, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid point value %q: %w", args[0], err)
	}

	return withApp(func(a *app.App) error {
		balance, err := a.Ledger().ResetPoints(context.Background(), points)
		if err != nil {
			return fmt.Errorf("reset points: %w", err)
		}

		fmt.Printf("Point pool reset to %.2f\n", balance.Points)
		return nil
	})
}
