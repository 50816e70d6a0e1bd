//nolint:revive // types is a standard Go package name pattern
package types

// SpeakerAnalysis is the speaker_analysis.json artifact.
type SpeakerAnalysis struct {
	Metadata              SpeakerAnalysisMetadata `json:"metadata"`
	GlobalSpeakerRankings []SpeakerRanking        `json:"global_speaker_rankings"`
	PerBPKAnalysis        []BPKAnalysis           `json:"per_bpk_analysis"`
}

// SpeakerAnalysisMetadata describes the extraction run.
type SpeakerAnalysisMetadata struct {
	ExtractionDate      string `json:"extraction_date"`
	Extractor           string `json:"extractor"`
	TotalBPKsAnalyzed   int    `json:"total_bpks_analyzed"`
	TotalUniqueSpeakers int    `json:"total_unique_speakers"`
}

// SpeakerRanking is a speaker's cumulative numbers across the corpus.
// The pipeline emits rankings ordered by speaking time.
type SpeakerRanking struct {
	SpeakerID                string  `json:"speaker_id"`
	TotalSpeakingTimeSeconds float64 `json:"total_speaking_time_seconds"`
	TotalSpeakingTimeMinutes float64 `json:"total_speaking_time_minutes"`
	TotalTurns               int     `json:"total_turns"`
	TotalWords               int     `json:"total_words"`
	BPKAppearances           int     `json:"bpk_appearances"`
	AvgSpeakingTimePerBPK    float64 `json:"avg_speaking_time_per_bpk"`
	AvgTurnsPerBPK           float64 `json:"avg_turns_per_bpk"`
}

// BPKAnalysis is the speaker breakdown of a single BPK.
type BPKAnalysis struct {
	VideoID              string             `json:"video_id"`
	Title                string             `json:"title"`
	PublishDate          *string            `json:"publish_date"`
	TotalDurationSeconds float64            `json:"total_duration_seconds"`
	SpeakerCount         int                `json:"speaker_count"`
	TotalTurns           int                `json:"total_turns"`
	TurnChanges          int                `json:"turn_changes"`
	AvgTurnGapSeconds    float64            `json:"avg_turn_gap_seconds"`
	Speakers             []BPKSpeakerDetail `json:"speakers"`
}

// BPKSpeakerDetail is one speaker's numbers within a BPK.
type BPKSpeakerDetail struct {
	SpeakerID                string  `json:"speaker_id"`
	TotalSpeakingTimeSeconds float64 `json:"total_speaking_time_seconds"`
	TotalSpeakingTimePercent float64 `json:"total_speaking_time_percent"`
	TurnCount                int     `json:"turn_count"`
	TotalWords               int     `json:"total_words"`
	AvgTurnDurationSeconds   float64 `json:"avg_turn_duration_seconds"`
	AvgWordsPerTurn          float64 `json:"avg_words_per_turn"`
	WordsPerMinute           float64 `json:"words_per_minute"`
	LongestTurnSeconds       float64 `json:"longest_turn_seconds"`
	ShortestTurnSeconds      float64 `json:"shortest_turn_seconds"`
}
