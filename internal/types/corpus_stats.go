//nolint:revive // types is a standard Go package name pattern
package types

// CorpusStats is the corpus_stats.json artifact: duration, word and speaker aggregates.
type CorpusStats struct {
	Metadata        CorpusStatsMetadata `json:"metadata"`
	CorpusStats     CorpusStatsData     `json:"corpus_stats"`
	SpeakerOverview SpeakerOverview     `json:"speaker_overview"`
	PerBPK          []BPKSummary        `json:"per_bpk"`
}

// CorpusStatsMetadata describes the extraction run.
type CorpusStatsMetadata struct {
	ExtractionDate string `json:"extraction_date"`
	Extractor      string `json:"extractor"`
	CorpusSize     int    `json:"corpus_size"`
}

// CorpusStatsData holds totals and per-item averages.
type CorpusStatsData struct {
	TotalBPKs                int       `json:"total_bpks"`
	TotalDurationSeconds     float64   `json:"total_duration_seconds"`
	TotalDurationHours       float64   `json:"total_duration_hours"`
	TotalWords               int       `json:"total_words"`
	AvgDurationPerBPKSeconds float64   `json:"avg_duration_per_bpk_seconds"`
	AvgDurationPerBPKMinutes float64   `json:"avg_duration_per_bpk_minutes"`
	AvgWordsPerBPK           float64   `json:"avg_words_per_bpk"`
	AvgWordsPerMinute        float64   `json:"avg_words_per_minute"`
	DateRange                DateRange `json:"date_range"`
}

// SpeakerOverview aggregates diarization output over the corpus.
type SpeakerOverview struct {
	TotalSpeakerTurns int     `json:"total_speaker_turns"`
	AvgSpeakersPerBPK float64 `json:"avg_speakers_per_bpk"`
	AvgTurnsPerBPK    float64 `json:"avg_turns_per_bpk"`
}

// BPKSummary is one row of the corpus per-item list.
type BPKSummary struct {
	VideoID         string  `json:"video_id"`
	Title           string  `json:"title"`
	PublishDate     *string `json:"publish_date"`
	DurationSeconds float64 `json:"duration_seconds"`
	DurationMinutes float64 `json:"duration_minutes"`
	WordCount       int     `json:"word_count"`
	SpeakerCount    int     `json:"speaker_count"`
	TurnCount       int     `json:"turn_count"`
	WordsPerMinute  float64 `json:"words_per_minute"`
}
