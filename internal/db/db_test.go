package db

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaSQL(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS stat_snapshots")
	for _, column := range []string{"id", "generation", "loaded_at", "documents", "warnings"} {
		assert.True(t, strings.Contains(schemaSQL, "\t"+column+" "), "missing column %s", column)
	}
}

func TestNewRecord(t *testing.T) {
	_, err := NewRecord(nil)
	assert.Error(t, err)

	loadedAt := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	record, err := NewRecord(&loader.Snapshot{Generation: 7, LoadedAt: loadedAt})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, int64(7), record.Generation)
	assert.Equal(t, loadedAt, record.LoadedAt)
	assert.NotNil(t, record.Documents)
	assert.NotNil(t, record.Warnings, "warnings are stored as [] rather than null")

	data, err := json.Marshal(record.Warnings)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestNewRecord_UniqueIDs(t *testing.T) {
	a, err := NewRecord(&loader.Snapshot{})
	require.NoError(t, err)
	b, err := NewRecord(&loader.Snapshot{})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSnapshotSummary_JSON(t *testing.T) {
	s := SnapshotSummary{
		ID:           uuid.MustParse("6f1c2a9e-2f4b-4c43-9a3e-6b1f0d9e1a11"),
		Generation:   3,
		Documents:    []string{"content_stats"},
		WarningCount: 1,
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"warning_count":1`)
	assert.Contains(t, string(data), `"documents":["content_stats"]`)
}
