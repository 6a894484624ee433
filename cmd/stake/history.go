package main

import (
	"context"
	"fmt"
	"time"

	"stake-tracker/internal/app"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	historyFrom string
	historyTo   string
)

var historyCmd = &cobra.Command{
	Use:   "history <goal-id>",
	Short: "Show a goal's evaluation history",
	Long: `Show a goal's events in ascending timestamp order. Deactivated
goals keep their full history.

Example:
  stake history 4f8a... --from 2026-08-01`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "Start date (YYYY-MM-DD), inclusive")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "End date (YYYY-MM-DD), exclusive")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	goalID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid goal id: %w", err)
	}

	from := time.Time{}
	if historyFrom != "" {
		from, err = time.Parse("2006-01-02", historyFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
	}

	to := time.Now().AddDate(0, 0, 1)
	if historyTo != "" {
		to, err = time.Parse("2006-01-02", historyTo)
		if err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
	}

	return withApp(func(a *app.App) error {
		events, err := a.Ledger().History(context.Background(), goalID, from, to)
		if err != nil {
			return fmt.Errorf("get history: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}

		fmt.Printf("%-12s %10s %-7s %10s %s\n", "Period", "Observed", "Outcome", "Deducted", "Recorded")
		for _, e := range events {
			fmt.Printf("%-12s %7.1f min %-7s %7.2f pts %s\n",
				e.Period, e.ObservedMinutes, e.Outcome, e.PointsDeducted,
				e.RecordedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	})
}
