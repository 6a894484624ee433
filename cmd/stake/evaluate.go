package main

import (
	"context"
	"fmt"
	"time"

	"stake-tracker/internal/app"
	"stake-tracker/internal/domain/entity"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Settle due goal-periods now",
	Long: `Settle every completed, unsettled period of every active goal.
Safe to run repeatedly: already-settled periods are skipped, and periods
whose usage data is unavailable stay pending for the next run.`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		events, err := a.Evaluator().EvaluateDueGoals(context.Background(), time.Now())
		if err != nil {
			return fmt.Errorf("evaluate goals: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("Nothing to settle.")
			return nil
		}

		failed := 0
		var deducted float64
		for _, e := range events {
			if e.Outcome == entity.OutcomeFail {
				failed++
				deducted += e.PointsDeducted
			}
		}

		fmt.Printf("Settled %d period(s): %d failed, %.2f points deducted\n",
			len(events), failed, deducted)
		return nil
	})
}
