package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stake-tracker/internal/app"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record <goal-id> <minutes>",
	Short: "Record a manual usage observation for the current period",
	Long: `Record an observation for a goal's current period without querying
the usage source. Settles the period immediately: a second record for the
same period is rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	goalID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid goal id: %w", err)
	}

	minutes, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid minutes value %q: %w", args[1], err)
	}

	return withApp(func(a *app.App) error {
		ctx := context.Background()

		goal, err := a.Ledger().GetGoal(ctx, goalID)
		if err != nil {
			return err
		}

		period := goal.PeriodAt(time.Now(), a.Location())

		event, err := a.Ledger().RecordObservation(ctx, goalID, period, minutes)
		if err != nil {
			return fmt.Errorf("record observation: %w", err)
		}

		fmt.Printf("Period %s: %s (%.2f points deducted)\n",
			event.Period, event.Outcome, event.PointsDeducted)
		return nil
	})
}
