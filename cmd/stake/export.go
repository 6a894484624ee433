package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"stake-tracker/internal/app"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a JSON snapshot of the ledger",
	Long: `Export the point pool, every goal and the full event log as a
JSON document.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (default from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		snapshot, err := a.Ledger().Snapshot(context.Background())
		if err != nil {
			return fmt.Errorf("assemble snapshot: %w", err)
		}

		out := exportOut
		if out == "" {
			out = a.SnapshotPath()
		}

		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}

		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}

		fmt.Printf("Snapshot written to %s (%d goals, %d events)\n",
			out, len(snapshot.Goals), len(snapshot.Events))
		return nil
	})
}
