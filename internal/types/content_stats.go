//nolint:revive // types is a standard Go package name pattern
package types

// ContentStats is the content_stats.json artifact: NER-driven KPIs and ranked entity lists.
type ContentStats struct {
	Metadata          ContentStatsMetadata     `json:"metadata"`
	HeaderKPIs        ContentHeaderKPIs        `json:"header_kpis"`
	StatisticalBasics ContentStatisticalBasics `json:"statistical_basics"`
	TopPersons        []StatItem               `json:"top_persons"`
	TopLocations      []StatItem               `json:"top_locations"`
	TopOrganizations  []StatItem               `json:"top_organizations"`
	TopTopics         []StatItem               `json:"top_topics"`
	PerBPK            []ContentBPKSummary      `json:"per_bpk"`
}

// ContentStatsMetadata describes the extraction run.
type ContentStatsMetadata struct {
	ExtractionDate string `json:"extraction_date"`
	Extractor      string `json:"extractor"`
	CorpusSize     int    `json:"corpus_size"`
	SpacyAvailable bool   `json:"spacy_available"`
}

// ContentHeaderKPIs are the headline numbers shown at the top of the dashboard.
type ContentHeaderKPIs struct {
	BPKsAnalyzed    int `json:"bpks_analyzed"`
	UniquePersons   int `json:"unique_persons"`
	UniqueLocations int `json:"unique_locations"`
	TotalQuestions  int `json:"total_questions"`
}

// ContentStatisticalBasics are corpus-wide averages and the single most mentioned entities.
type ContentStatisticalBasics struct {
	TotalDurationHours  float64   `json:"total_duration_hours"`
	TotalWords          int       `json:"total_words"`
	AvgWordsPerBPK      float64   `json:"avg_words_per_bpk"`
	AvgQuestionsPerBPK  float64   `json:"avg_questions_per_bpk"`
	AvgDurationMinutes  float64   `json:"avg_duration_minutes"`
	TopPerson           *string   `json:"top_person"`
	TopPersonMentions   int       `json:"top_person_mentions"`
	TopLocation         *string   `json:"top_location"`
	TopLocationMentions int       `json:"top_location_mentions"`
	TopTopic            *string   `json:"top_topic"`
	TopTopicMentions    int       `json:"top_topic_mentions"`
	DateRange           DateRange `json:"date_range"`
}

// ContentBPKSummary is the per-item content breakdown.
type ContentBPKSummary struct {
	VideoID            string  `json:"video_id"`
	Title              string  `json:"title"`
	Date               *string `json:"date"`
	WordCount          int     `json:"word_count"`
	DurationMinutes    float64 `json:"duration_minutes"`
	QuestionsCount     int     `json:"questions_count"`
	TopPerson          *string `json:"top_person"`
	TopLocation        *string `json:"top_location"`
	TopTopic           *string `json:"top_topic"`
	PersonsMentioned   int     `json:"persons_mentioned"`
	LocationsMentioned int     `json:"locations_mentioned"`
}
