package observability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonathan/bpk-stats/internal/db"
	"github.com/jonathan/bpk-stats/internal/fetch"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/jonathan/bpk-stats/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixtureSnapshot(t *testing.T) *loader.Snapshot {
	t.Helper()
	src, err := fetch.NewDirSource(filepath.Join("..", "..", "testdata", "site"))
	require.NoError(t, err)
	docs, err := types.DocumentSet(types.SetAll)
	require.NoError(t, err)
	st := loader.New(src, docs, loader.DefaultOptions(), zap.NewNop()).Load(context.Background())
	require.Equal(t, loader.PhaseReady, st.Phase, st.Message)
	return st.Snapshot
}

// assertBoxed checks that every line has the box width.
func assertBoxed(t *testing.T, output string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), "line %q", line)
	}
}

func TestPrintState(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintState(loader.State{
		Phase:      loader.PhaseFailed,
		Generation: 3,
		Err:        errors.New("failed to load corpus_stats.json"),
		Message:    "failed to load corpus_stats.json",
	})
	output := buf.String()

	assert.Contains(t, output, "LOAD STATE")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "Generation:  3")
	assert.Contains(t, output, "failed to load corpus_stats.json")
	assertBoxed(t, output)
}

func TestPrintState_WithSnapshot(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	snap := &loader.Snapshot{LoadedAt: time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC), Loaded: []string{"content_stats", "corpus_stats"}}
	p.PrintState(loader.State{Phase: loader.PhaseReady, Generation: 1, Snapshot: snap})
	output := buf.String()

	assert.Contains(t, output, "2025-03-12 09:30:00")
	assert.Contains(t, output, "Documents:   2")
	assert.Contains(t, output, "• corpus_stats")
	assert.NotContains(t, output, "Error:")
}

func TestPrintFundamentalAndBasics(t *testing.T) {
	snap := fixtureSnapshot(t)

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintFundamental(views.Fundamental(snap))
	p.PrintBasics(views.Basics(snap))
	output := buf.String()

	assert.Contains(t, output, "FUNDAMENTAL STATS")
	assert.Contains(t, output, "BPKs analyzed:     42")
	assert.Contains(t, output, "Top location:      Berlin")
	assert.Contains(t, output, "STATISTICAL BASICS")
	assert.Contains(t, output, "Olaf Scholz (211)")
	assert.Contains(t, output, "2024-01-08 .. 2025-03-12")
	assertBoxed(t, output)
}

func TestPrintFundamental_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFundamental(nil)
	p.PrintBasics(nil)
	p.PrintTopList("EMPTY", nil)
	p.PrintTopSpeakers(nil)
	p.PrintSnapshot(nil)

	assert.Empty(t, buf.String())
}

func TestPrintTopList_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	items := make([]types.StatItem, 8)
	for i := range items {
		items[i] = types.StatItem{Label: fmt.Sprintf("Ministerium für Wirtschaft und Klimaschutz %d", i), Value: types.NumberValue(float64(100 - i))}
	}
	p.PrintTopList("TOP ORGANIZATIONS", items)
	output := buf.String()

	assert.Contains(t, output, "#5")
	assert.NotContains(t, output, "#6")
	assert.Contains(t, output, "... and 3 more")
	assert.Contains(t, output, "...")
	assertBoxed(t, output)
}

func TestPrintTopSpeakers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTopSpeakers(views.TopSpeakers(fixtureSnapshot(t)))
	output := buf.String()

	assert.Contains(t, output, "TOP SPEAKERS")
	assert.Contains(t, output, "SPEAKER_00")
	assert.Contains(t, output, "... and 5 more")
}

func TestPrintWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintWarnings(nil)
	assert.Contains(t, buf.String(), "NO SCHEMA WARNINGS")

	buf.Reset()
	p.PrintWarnings([]loader.Warning{
		{Document: "content_stats.json", Message: "header_kpis.bpks_analyzed: Invalid type. Expected: integer, given: string"},
	})
	output := buf.String()
	assert.Contains(t, output, "Found 1 warnings")
	assert.Contains(t, output, "⚠ content_stats.json")
	assertBoxed(t, output)
}

func TestPrintSnapshot(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSnapshot(fixtureSnapshot(t))
	output := buf.String()

	for _, title := range []string{"FUNDAMENTAL STATS", "TOP PERSONS", "TOP SPEAKERS", "FREQUENCY: topWords", "TOP COUNTRIES", "SCHEMA WARNINGS"} {
		assert.Contains(t, output, title)
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintHistory(nil)
	assert.Contains(t, buf.String(), "NO ARCHIVED SNAPSHOTS")

	buf.Reset()
	id := uuid.New()
	p.PrintHistory([]db.SnapshotSummary{
		{ID: id, Generation: 4, LoadedAt: time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC), Documents: []string{"content_stats", "corpus_stats"}, WarningCount: 1},
	})
	output := buf.String()
	assert.Contains(t, output, "ARCHIVED SNAPSHOTS (1)")
	assert.Contains(t, output, id.String())
	assert.Contains(t, output, "2 documents, 1 warnings")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Münch...", truncate("Münchener Sicherheitskonferenz", 8))
	assert.Equal(t, 8, utf8.RuneCountInString(truncate("Münchener Sicherheitskonferenz", 8)))
}
