package schemas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validContentStats = `{
	"metadata": {"extraction_date": "2025-01-02", "extractor": "content_stats", "corpus_size": 42, "spacy_available": false},
	"header_kpis": {"bpks_analyzed": 42, "unique_persons": 10, "unique_locations": 5, "total_questions": 87},
	"statistical_basics": {
		"total_duration_hours": 61.5, "total_words": 480000,
		"top_person": null, "top_location": "Berlin",
		"date_range": {"start": null, "end": null}
	},
	"top_persons": [],
	"top_locations": [{"label": "Berlin", "value": 12}],
	"top_organizations": [],
	"top_topics": [{"label": "Klima", "value": "hoch"}],
	"per_bpk": [{"video_id": "abc"}]
}`

func TestValidateDocument_ContentStats(t *testing.T) {
	assert.NoError(t, ValidateDocument(types.KindContentStats, "content_stats.json", []byte(validContentStats)))
}

func TestValidateDocument_ShapeMismatch(t *testing.T) {
	body := `{
		"metadata": {"extraction_date": "2025-01-02", "extractor": "content_stats", "corpus_size": 1},
		"header_kpis": {"bpks_analyzed": "42", "unique_persons": 1, "unique_locations": 1, "total_questions": 1},
		"statistical_basics": {"total_duration_hours": 1, "total_words": 1, "date_range": {"start": null, "end": null}},
		"top_persons": [{"label": "x"}],
		"top_locations": [], "top_organizations": [], "top_topics": []
	}`

	err := ValidateDocument(types.KindContentStats, "content_stats.json", []byte(body))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "content_stats.json", validationErr.Document)

	assert.True(t, hasFieldPrefix(validationErr.Errors, "header_kpis.bpks_analyzed"))
	assert.True(t, hasFieldPrefix(validationErr.Errors, "top_persons.0"))
}

func hasFieldPrefix(errs []FieldError, prefix string) bool {
	for _, fe := range errs {
		if strings.HasPrefix(fe.Field, prefix) {
			return true
		}
	}
	return false
}

func TestValidateDocument_SpeakerAnalysisMissingSections(t *testing.T) {
	err := ValidateDocument(types.KindSpeakerAnalysis, "speaker_analysis.json", []byte(`{"metadata": {}}`))
	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateDocument_TopListShapes(t *testing.T) {
	assert.NoError(t, ValidateDocument(types.KindTopList, "top_persons.json", []byte(`[{"label": "a", "value": 1}]`)))
	assert.NoError(t, ValidateDocument(types.KindTopList, "top_persons.json", []byte(`{"metadata": {}, "items": [{"label": "a", "value": "b"}]}`)))
	assert.Error(t, ValidateDocument(types.KindTopList, "top_persons.json", []byte(`{"metadata": {}}`)))
}

func TestValidateDocument_CompiledStats(t *testing.T) {
	body := `{
		"fundamentalStats": {"bpk_count": 12},
		"statisticalBasics": {},
		"frequencyDistribution": {"topWords": [{"label": "Frage", "value": 99}]},
		"frameAnalysis": {"conflict": 4},
		"narrativeIndex": {"2023-Q1": [{"label": "Haushalt", "value": 7}]}
	}`
	assert.NoError(t, ValidateDocument(types.KindCompiledStats, "compiled_stats.json", []byte(body)))
}

func TestValidateDocumentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content_stats.json")
	require.NoError(t, os.WriteFile(path, []byte(validContentStats), 0o644))

	assert.NoError(t, ValidateDocumentFile(types.KindContentStats, path))

	err := ValidateDocumentFile(types.KindContentStats, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
