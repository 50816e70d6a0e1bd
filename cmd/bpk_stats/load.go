package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/observability"
	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/jonathan/bpk-stats/internal/views"
	"github.com/spf13/cobra"
)

var (
	loadJSON    bool
	loadArchive bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the statistics artifacts once and print them",
	Long: "Fetches every document of the configured set, validates it against its schema " +
		"and prints the resulting views. Exits non-zero when the load fails.",
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadJSON, "json", false, "Print the load report as JSON")
	loadCmd.Flags().BoolVar(&loadArchive, "archive", false, "Archive the snapshot to database_url after a successful load")
	rootCmd.AddCommand(loadCmd)
}

// loadReport is the --json output of the load command.
type loadReport struct {
	Phase       loader.Phase                `json:"phase"`
	Error       string                      `json:"error,omitempty"`
	Generation  uint64                      `json:"generation"`
	LoadedAt    *time.Time                  `json:"loaded_at,omitempty"`
	Documents   []string                    `json:"documents"`
	Warnings    []loader.Warning            `json:"warnings"`
	Fundamental *views.FundamentalStats     `json:"fundamental,omitempty"`
	Basics      *views.StatisticalBasics    `json:"basics,omitempty"`
	Top         map[string][]types.StatItem `json:"top,omitempty"`
	Speakers    []types.SpeakerRanking      `json:"top_speakers,omitempty"`
	Timeline    []views.TimelineEntry       `json:"timeline,omitempty"`
	Legacy      map[string][]types.StatItem `json:"legacy_top,omitempty"`
}

func newLoadReport(st loader.State) loadReport {
	report := loadReport{
		Phase:      st.Phase,
		Error:      st.Message,
		Generation: st.Generation,
		Documents:  []string{},
		Warnings:   []loader.Warning{},
	}

	snap := st.Snapshot
	if snap == nil {
		return report
	}

	loadedAt := snap.LoadedAt
	report.LoadedAt = &loadedAt
	report.Documents = append(report.Documents, snap.Loaded...)
	report.Warnings = append(report.Warnings, snap.Warnings...)
	report.Fundamental = views.Fundamental(snap)
	report.Basics = views.Basics(snap)
	if report.Fundamental != nil {
		report.Top = map[string][]types.StatItem{
			"persons":       views.TopPersons(snap),
			"locations":     views.TopLocations(snap),
			"organizations": views.TopOrganizations(snap),
			"topics":        views.TopTopics(snap),
		}
		report.Timeline = views.Timeline(snap)
	}
	report.Speakers = views.TopSpeakers(snap)

	for _, name := range []string{types.DocTopPersons, types.DocTopEntities, types.DocTopCountries, types.DocTopThemes, types.DocTopSentences} {
		if !snap.Has(name) {
			continue
		}
		if report.Legacy == nil {
			report.Legacy = make(map[string][]types.StatItem)
		}
		report.Legacy[name] = views.TopList(snap, name)
	}
	return report
}

func runLoad(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	var archiver loader.Archiver
	if loadArchive {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("--archive requires database_url (or DATABASE_URL)")
		}
		database, err := openArchive(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer database.Close()
		archiver = database
	}

	l, err := newLoader(cfg, src, archiver, logger)
	if err != nil {
		return err
	}

	st := l.Load(ctx)

	out := cmd.OutOrStdout()
	if loadJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newLoadReport(st)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		printer := observability.NewPrinter(out)
		printer.PrintState(st)
		printer.PrintSnapshot(st.Snapshot)
	}

	if st.Failed() {
		return fmt.Errorf("load failed: %s", st.Message)
	}
	return nil
}
