package main

import (
	"os"

	"stake-tracker/internal/app"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stake",
	Short: "Loss-aversion screen-time commitment tracker",
	Long: `stake tracks app and website usage goals against a non-renewing
pool of points. Each goal stakes part of the pool: blow past a usage limit
and the penalty is deducted, permanently.

Core Commands:
  goal       Manage usage goals
  points     Show or reset the point pool
  history    Show a goal's evaluation history
  evaluate   Settle due goal-periods now
  run        Run the evaluation scheduler in the foreground
  record     Record a manual usage observation
  export     Export a JSON snapshot of the ledger
  verify     Replay the event log against the balance`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			os.Setenv("CONFIG_PATH", cfgFile)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./config/base.yaml)")
}

// withApp wires the application and tears it down around one command
func withApp(fn func(a *app.App) error) error {
	application, err := app.New()
	if err != nil {
		return err
	}
	defer application.Close()

	return fn(application)
}
