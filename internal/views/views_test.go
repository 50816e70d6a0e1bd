package views

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/bpk-stats/internal/fetch"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadFixtureSite(t *testing.T, set string) *loader.Snapshot {
	t.Helper()
	src, err := fetch.NewDirSource(filepath.Join("..", "..", "testdata", "site"))
	require.NoError(t, err)
	docs, err := types.DocumentSet(set)
	require.NoError(t, err)

	state := loader.New(src, docs, loader.DefaultOptions(), zap.NewNop()).Load(context.Background())
	require.Equal(t, loader.PhaseReady, state.Phase, state.Message)
	return state.Snapshot
}

func rankings(n int) []types.SpeakerRanking {
	out := make([]types.SpeakerRanking, n)
	for i := range out {
		// deliberately not sorted by speaking time
		out[i] = types.SpeakerRanking{SpeakerID: fmt.Sprintf("SPEAKER_%03d", i), TotalSpeakingTimeSeconds: float64(i % 7)}
	}
	return out
}

func TestFundamental(t *testing.T) {
	assert.Nil(t, Fundamental(nil))
	assert.Nil(t, Fundamental(&loader.Snapshot{}))

	snap := loadFixtureSite(t, types.SetAggregated)
	fs := Fundamental(snap)
	require.NotNil(t, fs)
	assert.Equal(t, 42, fs.BPKsAnalyzed)
	assert.Equal(t, 127, fs.UniqueLocations)
	assert.Equal(t, 318, fs.UniquePersons)
	assert.Equal(t, 1204, fs.TotalQuestions)
	require.NotNil(t, fs.TopLocation)
	assert.Equal(t, "Berlin", *fs.TopLocation)

	data, err := json.Marshal(fs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bpks_analyzed":42`)
}

func TestBasics(t *testing.T) {
	assert.Nil(t, Basics(nil))

	snap := loadFixtureSite(t, types.SetAggregated)
	b := Basics(snap)
	require.NotNil(t, b)
	assert.Equal(t, 512340, b.TotalWords)
	assert.InDelta(t, 61.4, b.TotalDurationHours, 1e-9)
	require.NotNil(t, b.TopPerson)
	assert.Equal(t, "Olaf Scholz", *b.TopPerson)
	assert.Equal(t, 211, b.TopPersonMentions)
	require.NotNil(t, b.DateRange.Start)
	assert.Equal(t, "2024-01-08", *b.DateRange.Start)
}

func TestTopLists(t *testing.T) {
	assert.Equal(t, []types.StatItem{}, TopPersons(nil))
	assert.Equal(t, []types.StatItem{}, TopLocations(&loader.Snapshot{}))

	snap := loadFixtureSite(t, types.SetAggregated)
	assert.Equal(t, snap.ContentStats.TopPersons, TopPersons(snap))
	assert.Equal(t, snap.ContentStats.TopLocations, TopLocations(snap))
	assert.Equal(t, snap.ContentStats.TopOrganizations, TopOrganizations(snap))
	assert.Equal(t, snap.ContentStats.TopTopics, TopTopics(snap))
	assert.Equal(t, "Olaf Scholz", TopPersons(snap)[0].Label)

	empty := &loader.Snapshot{ContentStats: &types.ContentStats{}}
	assert.NotNil(t, TopTopics(empty))
	assert.Empty(t, TopTopics(empty))
}

func TestTopSpeakers(t *testing.T) {
	assert.Equal(t, []types.SpeakerRanking{}, TopSpeakers(nil))

	for _, n := range []int{0, 5, 10, 200} {
		t.Run(fmt.Sprintf("%d rankings", n), func(t *testing.T) {
			all := rankings(n)
			snap := &loader.Snapshot{SpeakerAnalysis: &types.SpeakerAnalysis{GlobalSpeakerRankings: all}}

			got := TopSpeakers(snap)
			want := min(n, MaxTopSpeakers)
			assert.Len(t, got, want)
			assert.Equal(t, all[:want], got, "first entries in source order")
		})
	}
}

func TestTopSpeakers_DoesNotAliasSnapshot(t *testing.T) {
	snap := &loader.Snapshot{SpeakerAnalysis: &types.SpeakerAnalysis{GlobalSpeakerRankings: rankings(3)}}
	got := TopSpeakers(snap)
	got[0].SpeakerID = "changed"
	assert.Equal(t, "SPEAKER_000", snap.SpeakerAnalysis.GlobalSpeakerRankings[0].SpeakerID)
}

func TestTimeline(t *testing.T) {
	assert.Equal(t, []TimelineEntry{}, Timeline(nil))

	snap := loadFixtureSite(t, types.SetAggregated)
	entries := Timeline(snap)
	require.Len(t, entries, 3)
	assert.Equal(t, "Regierungspressekonferenz vom 8. Januar 2024", entries[0].Label)
	assert.Equal(t, "Zz9Yy8Xx7Ww", entries[1].Label, "empty title falls back to video id")
	assert.Equal(t, 9050, entries[1].WordCount)

	data, err := json.Marshal(entries[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label":"Zz9Yy8Xx7Ww"`)
	assert.Contains(t, string(data), `"video_id":"Zz9Yy8Xx7Ww"`)
}

func TestBPKAnalysis(t *testing.T) {
	assert.Nil(t, BPKAnalysis(nil, "a1B2c3D4e5F"))

	snap := loadFixtureSite(t, types.SetAggregated)

	tests := []struct {
		name      string
		videoID   string
		wantNil   bool
		wantTitle string
	}{
		{name: "unique", videoID: "Zz9Yy8Xx7Ww", wantTitle: ""},
		{name: "absent", videoID: "does-not-exist", wantNil: true},
		{name: "duplicates return first", videoID: "a1B2c3D4e5F", wantTitle: "Regierungspressekonferenz vom 8. Januar 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BPKAnalysis(snap, tt.videoID)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.videoID, got.VideoID)
			assert.Equal(t, tt.wantTitle, got.Title)
		})
	}
}

func TestFundamental_NullContentStats(t *testing.T) {
	site := filepath.Join("..", "..", "testdata", "site", "data", "aggregated")
	dir := t.TempDir()
	agg := filepath.Join(dir, "data", "aggregated")
	require.NoError(t, os.MkdirAll(agg, 0o755))
	for _, name := range []string{"corpus_stats.json", "speaker_analysis.json"} {
		body, err := os.ReadFile(filepath.Join(site, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(agg, name), body, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(agg, "content_stats.json"), []byte("null"), 0o644))

	src, err := fetch.NewDirSource(dir)
	require.NoError(t, err)
	state := loader.New(src, types.AggregatedDocuments(), loader.DefaultOptions(), zap.NewNop()).Load(context.Background())
	require.Equal(t, loader.PhaseReady, state.Phase, state.Message)

	assert.Nil(t, Fundamental(state.Snapshot))
	assert.Nil(t, Basics(state.Snapshot))
	assert.Len(t, TopSpeakers(state.Snapshot), 10)
}
