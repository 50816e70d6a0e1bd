// Package views derives the dashboard projections from a loaded snapshot.
// Every function is pure and tolerates a nil snapshot or a missing document.
package views

import (
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/types"
)

// MaxTopSpeakers caps the speaker ranking shown on the dashboard.
const MaxTopSpeakers = 10

// FundamentalStats are the header KPIs plus the most mentioned location and topic.
type FundamentalStats struct {
	BPKsAnalyzed    int     `json:"bpks_analyzed"`
	UniqueLocations int     `json:"unique_locations"`
	UniquePersons   int     `json:"unique_persons"`
	TotalQuestions  int     `json:"total_questions"`
	TopLocation     *string `json:"top_location"`
	TopTopic        *string `json:"top_topic"`
}

// StatisticalBasics is the corpus-wide subset of content_stats shown below the KPIs.
type StatisticalBasics struct {
	TotalDurationHours  float64         `json:"total_duration_hours"`
	TotalWords          int             `json:"total_words"`
	AvgWordsPerBPK      float64         `json:"avg_words_per_bpk"`
	AvgQuestionsPerBPK  float64         `json:"avg_questions_per_bpk"`
	AvgDurationMinutes  float64         `json:"avg_duration_minutes"`
	TopPerson           *string         `json:"top_person"`
	TopPersonMentions   int             `json:"top_person_mentions"`
	TopLocation         *string         `json:"top_location"`
	TopLocationMentions int             `json:"top_location_mentions"`
	TopTopic            *string         `json:"top_topic"`
	TopTopicMentions    int             `json:"top_topic_mentions"`
	DateRange           types.DateRange `json:"date_range"`
}

// TimelineEntry is one BPK of the corpus with a display label.
type TimelineEntry struct {
	types.BPKSummary
	Label string `json:"label"`
}

func contentStats(snap *loader.Snapshot) *types.ContentStats {
	if snap == nil {
		return nil
	}
	return snap.ContentStats
}

// Fundamental returns the header KPIs, or nil until content stats are loaded.
func Fundamental(snap *loader.Snapshot) *FundamentalStats {
	cs := contentStats(snap)
	if cs == nil {
		return nil
	}
	return &FundamentalStats{
		BPKsAnalyzed:    cs.HeaderKPIs.BPKsAnalyzed,
		UniqueLocations: cs.HeaderKPIs.UniqueLocations,
		UniquePersons:   cs.HeaderKPIs.UniquePersons,
		TotalQuestions:  cs.HeaderKPIs.TotalQuestions,
		TopLocation:     cs.StatisticalBasics.TopLocation,
		TopTopic:        cs.StatisticalBasics.TopTopic,
	}
}

// Basics returns the statistical basics, or nil until content stats are loaded.
func Basics(snap *loader.Snapshot) *StatisticalBasics {
	cs := contentStats(snap)
	if cs == nil {
		return nil
	}
	b := cs.StatisticalBasics
	return &StatisticalBasics{
		TotalDurationHours:  b.TotalDurationHours,
		TotalWords:          b.TotalWords,
		AvgWordsPerBPK:      b.AvgWordsPerBPK,
		AvgQuestionsPerBPK:  b.AvgQuestionsPerBPK,
		AvgDurationMinutes:  b.AvgDurationMinutes,
		TopPerson:           b.TopPerson,
		TopPersonMentions:   b.TopPersonMentions,
		TopLocation:         b.TopLocation,
		TopLocationMentions: b.TopLocationMentions,
		TopTopic:            b.TopTopic,
		TopTopicMentions:    b.TopTopicMentions,
		DateRange:           b.DateRange,
	}
}

// orEmpty keeps JSON output as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// TopPersons returns the ranked person list in source order.
func TopPersons(snap *loader.Snapshot) []types.StatItem {
	if cs := contentStats(snap); cs != nil {
		return orEmpty(cs.TopPersons)
	}
	return []types.StatItem{}
}

// TopLocations returns the ranked location list in source order.
func TopLocations(snap *loader.Snapshot) []types.StatItem {
	if cs := contentStats(snap); cs != nil {
		return orEmpty(cs.TopLocations)
	}
	return []types.StatItem{}
}

// TopOrganizations returns the ranked organization list in source order.
func TopOrganizations(snap *loader.Snapshot) []types.StatItem {
	if cs := contentStats(snap); cs != nil {
		return orEmpty(cs.TopOrganizations)
	}
	return []types.StatItem{}
}

// TopTopics returns the ranked topic list in source order.
func TopTopics(snap *loader.Snapshot) []types.StatItem {
	if cs := contentStats(snap); cs != nil {
		return orEmpty(cs.TopTopics)
	}
	return []types.StatItem{}
}

// TopSpeakers returns the first MaxTopSpeakers global rankings.
// The pipeline already orders rankings by speaking time, so they are not re-sorted.
func TopSpeakers(snap *loader.Snapshot) []types.SpeakerRanking {
	if snap == nil || snap.SpeakerAnalysis == nil {
		return []types.SpeakerRanking{}
	}
	rankings := snap.SpeakerAnalysis.GlobalSpeakerRankings
	if len(rankings) > MaxTopSpeakers {
		rankings = rankings[:MaxTopSpeakers]
	}
	out := make([]types.SpeakerRanking, len(rankings))
	copy(out, rankings)
	return out
}

// Timeline maps the corpus per-BPK list to labelled entries.
// The label is the title, or the video ID when the title is empty.
func Timeline(snap *loader.Snapshot) []TimelineEntry {
	if snap == nil || snap.CorpusStats == nil {
		return []TimelineEntry{}
	}
	entries := make([]TimelineEntry, 0, len(snap.CorpusStats.PerBPK))
	for _, bpk := range snap.CorpusStats.PerBPK {
		label := bpk.Title
		if label == "" {
			label = bpk.VideoID
		}
		entries = append(entries, TimelineEntry{BPKSummary: bpk, Label: label})
	}
	return entries
}

// BPKAnalysis returns the speaker breakdown of a BPK, or nil when it is
// absent. With duplicate IDs the first entry wins.
func BPKAnalysis(snap *loader.Snapshot, videoID string) *types.BPKAnalysis {
	if snap == nil || snap.SpeakerAnalysis == nil {
		return nil
	}
	for i := range snap.SpeakerAnalysis.PerBPKAnalysis {
		if snap.SpeakerAnalysis.PerBPKAnalysis[i].VideoID == videoID {
			analysis := snap.SpeakerAnalysis.PerBPKAnalysis[i]
			return &analysis
		}
	}
	return nil
}
