package main

import (
	"context"
	"fmt"

	"stake-tracker/internal/app"
	"stake-tracker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage usage goals",
}

var (
	goalAddName        string
	goalAddTarget      string
	goalAddDescription string
	goalAddPeriod      string
	goalAddLimit       float64
	goalAddMode        string
	goalAddPenalty     float64
	goalAddPerMinute   float64
)

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a usage goal",
	Long: `Add a usage goal staked against the point pool.

The target is the simplified app or domain name as it appears in usage
data, e.g. "Youtube" or "Safari".

Example:
  stake goal add --target Youtube --limit 60 --penalty 5
  stake goal add --target Safari --period weekly --limit 300 --mode per_minute --per-minute 0.5`,
	RunE: runGoalAdd,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE:  runGoalList,
}

var goalDeactivateCmd = &cobra.Command{
	Use:   "deactivate <goal-id>",
	Short: "Deactivate a goal, preserving its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalDeactivate,
}

var goalListAll bool

func init() {
	goalAddCmd.Flags().StringVar(&goalAddName, "name", "", "Display name (defaults to target)")
	goalAddCmd.Flags().StringVar(&goalAddTarget, "target", "", "App or domain name to match (required)")
	goalAddCmd.Flags().StringVar(&goalAddDescription, "description", "", "Optional description")
	goalAddCmd.Flags().StringVar(&goalAddPeriod, "period", "daily", "Evaluation period (daily, weekly)")
	goalAddCmd.Flags().Float64Var(&goalAddLimit, "limit", 0, "Usage limit in minutes per period (required)")
	goalAddCmd.Flags().StringVar(&goalAddMode, "mode", "fixed", "Penalty mode (fixed, per_minute)")
	goalAddCmd.Flags().Float64Var(&goalAddPenalty, "penalty", 5, "Points deducted per failed period (fixed mode)")
	goalAddCmd.Flags().Float64Var(&goalAddPerMinute, "per-minute", 0.5, "Points deducted per overage minute (per_minute mode)")
	goalAddCmd.MarkFlagRequired("target")
	goalAddCmd.MarkFlagRequired("limit")

	goalListCmd.Flags().BoolVar(&goalListAll, "all", false, "Include deactivated goals")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalDeactivateCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		name := goalAddName
		if name == "" {
			name = goalAddTarget
		}

		var description *string
		if goalAddDescription != "" {
			description = &goalAddDescription
		}

		goal, err := a.Ledger().AddGoal(context.Background(),
			name, goalAddTarget, description,
			entity.PeriodType(goalAddPeriod), goalAddLimit,
			entity.PenaltyMode(goalAddMode), goalAddPenalty, goalAddPerMinute,
		)
		if err != nil {
			return fmt.Errorf("add goal: %w", err)
		}

		fmt.Printf("Goal %q added (%s)\n", goal.Name, goal.ID)
		return nil
	})
}

func runGoalList(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		goals, err := a.Ledger().ListGoals(context.Background(), !goalListAll)
		if err != nil {
			return fmt.Errorf("list goals: %w", err)
		}

		if len(goals) == 0 {
			fmt.Println("No goals.")
			return nil
		}

		fmt.Printf("%-36s %-16s %-7s %10s %-10s %s\n",
			"ID", "Target", "Period", "Limit", "Penalty", "Active")
		for _, g := range goals {
			penalty := fmt.Sprintf("%.1f pts", g.PenaltyPoints)
			if g.PenaltyMode == entity.PenaltyModePerMinute {
				penalty = fmt.Sprintf("%.2f/min", g.PointsPerMinute)
			}
			fmt.Printf("%-36s %-16s %-7s %7.1f min %-10s %v\n",
				g.ID, g.Target, g.PeriodType, g.LimitMinutes, penalty, g.IsActive)
		}
		return nil
	})
}

func runGoalDeactivate(cmd *cobra.Command, args []string) error {
	goalID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid goal id: %w", err)
	}

	return withApp(func(a *app.App) error {
		if err := a.Ledger().DeactivateGoal(context.Background(), goalID); err != nil {
			return fmt.Errorf("deactivate goal: %w", err)
		}

		fmt.Printf("Goal %s deactivated; its history is preserved\n", goalID)
		return nil
	})
}
