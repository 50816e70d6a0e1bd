// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/bpk-stats/internal/db"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/jonathan/bpk-stats/internal/views"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the load and history commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// printBanner prints a single-line box.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBanner(text string) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, text)
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// PrintState outputs the phase of the last load and what it produced.
func (p *Printer) PrintState(st loader.State) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Phase:       %s\n", st.Phase))
	sb.WriteString(fmt.Sprintf("Generation:  %d\n", st.Generation))
	if st.Message != "" {
		sb.WriteString(fmt.Sprintf("Error:       %s\n", st.Message))
	}
	if snap := st.Snapshot; snap != nil {
		sb.WriteString(fmt.Sprintf("Loaded at:   %s\n", snap.LoadedAt.Format("2006-01-02 15:04:05")))
		sb.WriteString(fmt.Sprintf("Documents:   %d\n", len(snap.Loaded)))
		for _, name := range snap.Loaded {
			sb.WriteString(fmt.Sprintf("  • %s\n", name))
		}
	}

	p.printBox("LOAD STATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFundamental outputs the header KPIs.
func (p *Printer) PrintFundamental(fs *views.FundamentalStats) {
	if fs == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("BPKs analyzed:     %d\n", fs.BPKsAnalyzed))
	sb.WriteString(fmt.Sprintf("Unique persons:    %d\n", fs.UniquePersons))
	sb.WriteString(fmt.Sprintf("Unique locations:  %d\n", fs.UniqueLocations))
	sb.WriteString(fmt.Sprintf("Total questions:   %d\n", fs.TotalQuestions))
	sb.WriteString(fmt.Sprintf("Top location:      %s\n", orDash(fs.TopLocation)))
	sb.WriteString(fmt.Sprintf("Top topic:         %s", orDash(fs.TopTopic)))

	p.printBox("FUNDAMENTAL STATS", sb.String())
}

// PrintBasics outputs the corpus-wide statistical basics.
func (p *Printer) PrintBasics(b *views.StatisticalBasics) {
	if b == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Duration:          %.1f h\n", b.TotalDurationHours))
	sb.WriteString(fmt.Sprintf("Words:             %d\n", b.TotalWords))
	sb.WriteString(fmt.Sprintf("Avg words/BPK:     %.0f\n", b.AvgWordsPerBPK))
	sb.WriteString(fmt.Sprintf("Avg questions/BPK: %.1f\n", b.AvgQuestionsPerBPK))
	sb.WriteString(fmt.Sprintf("Top person:        %s (%d)\n", orDash(b.TopPerson), b.TopPersonMentions))
	sb.WriteString(fmt.Sprintf("Date range:        %s .. %s", orDash(b.DateRange.Start), orDash(b.DateRange.End)))

	p.printBox("STATISTICAL BASICS", sb.String())
}

// PrintTopList outputs the first entries of a ranked list.
func (p *Printer) PrintTopList(title string, items []types.StatItem) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("#%d  %-32s %s\n", i+1, truncate(items[i].Label, 32), items[i].Value))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(items)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTopSpeakers outputs the speaker ranking with speaking time.
func (p *Printer) PrintTopSpeakers(speakers []types.SpeakerRanking) {
	if len(speakers) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(speakers), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := speakers[i]
		sb.WriteString(fmt.Sprintf("#%d  %-14s %7.1f min  %4d turns\n", i+1, s.SpeakerID, s.TotalSpeakingTimeMinutes, s.TotalTurns))
	}
	if len(speakers) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(speakers)-maxItemsToShow))
	}

	p.printBox("TOP SPEAKERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs schema warnings attached to a snapshot.
func (p *Printer) PrintWarnings(warnings []loader.Warning) {
	if len(warnings) == 0 {
		p.printBanner("✅ NO SCHEMA WARNINGS")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(warnings)))
	for i, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w.Document))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(w.Message, 50)))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SCHEMA WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSnapshot outputs every section the snapshot has data for.
func (p *Printer) PrintSnapshot(snap *loader.Snapshot) {
	if snap == nil {
		return
	}

	p.PrintFundamental(views.Fundamental(snap))
	p.PrintBasics(views.Basics(snap))
	p.PrintTopList("TOP PERSONS", views.TopPersons(snap))
	p.PrintTopList("TOP TOPICS", views.TopTopics(snap))
	p.PrintTopSpeakers(views.TopSpeakers(snap))
	if snap.CompiledStats != nil {
		for _, name := range views.FrequencyDistributionNames(snap) {
			p.PrintTopList("FREQUENCY: "+name, views.FrequencyDistribution(snap, name))
		}
	}
	p.PrintTopList("TOP COUNTRIES", views.TopList(snap, types.DocTopCountries))
	p.PrintWarnings(snap.Warnings)
}

// PrintHistory outputs archived snapshots, newest first.
func (p *Printer) PrintHistory(summaries []db.SnapshotSummary) {
	if len(summaries) == 0 {
		p.printBanner("NO ARCHIVED SNAPSHOTS")
		return
	}

	var sb strings.Builder
	for i, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s  gen %d\n", s.LoadedAt.Format("2006-01-02 15:04:05"), s.Generation))
		sb.WriteString(fmt.Sprintf("  %s\n", s.ID))
		sb.WriteString(fmt.Sprintf("  %d documents, %d warnings\n", len(s.Documents), s.WarningCount))
		if i < len(summaries)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("ARCHIVED SNAPSHOTS (%d)", len(summaries)), strings.TrimSuffix(sb.String(), "\n"))
}
