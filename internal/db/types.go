package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/bpk-stats/internal/loader"
)

// SnapshotRecord is an archived snapshot with the raw body of every loaded document.
type SnapshotRecord struct {
	ID         uuid.UUID                  `json:"id"`
	Generation int64                      `json:"generation"`
	LoadedAt   time.Time                  `json:"loaded_at"`
	Documents  map[string]json.RawMessage `json:"documents"`
	Warnings   []loader.Warning           `json:"warnings"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// SnapshotSummary is a lightweight view of a snapshot for listing
type SnapshotSummary struct {
	ID           uuid.UUID `json:"id"`
	Generation   int64     `json:"generation"`
	LoadedAt     time.Time `json:"loaded_at"`
	Documents    []string  `json:"documents"`
	WarningCount int       `json:"warning_count"`
}

// DefaultListLimit applies when ListSnapshots is called without a limit.
const DefaultListLimit = 20
