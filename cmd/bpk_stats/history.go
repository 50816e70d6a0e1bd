package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/bpk-stats/internal/db"
	"github.com/jonathan/bpk-stats/internal/observability"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
	historyID    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived snapshots",
	Long:  "Lists the snapshots archived in database_url, newest first. With --id prints one archived snapshot as JSON.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", db.DefaultListLimit, "Maximum number of snapshots to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the list as JSON")
	historyCmd.Flags().StringVar(&historyID, "id", "", "Print the archived snapshot with this ID")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("history requires database_url (or DATABASE_URL)")
	}
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be positive")
	}

	var id uuid.UUID
	if historyID != "" {
		if id, err = uuid.Parse(historyID); err != nil {
			return fmt.Errorf("invalid snapshot id: %w", err)
		}
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if historyID != "" {
		record, err := database.GetSnapshot(ctx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("snapshot not found: %s", id)
		}
		return enc.Encode(record)
	}

	summaries, err := database.ListSnapshots(ctx, historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		if summaries == nil {
			summaries = []db.SnapshotSummary{}
		}
		return enc.Encode(summaries)
	}
	observability.NewPrinter(out).PrintHistory(summaries)
	return nil
}
