package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/bpk-stats/internal/loader"
)

// NewRecord converts a committed snapshot into a record ready to store.
func NewRecord(snap *loader.Snapshot) (*SnapshotRecord, error) {
	if snap == nil {
		return nil, errors.New("snapshot is nil")
	}
	warnings := snap.Warnings
	if warnings == nil {
		warnings = []loader.Warning{}
	}
	return &SnapshotRecord{
		ID:         uuid.New(),
		Generation: int64(snap.Generation),
		LoadedAt:   snap.LoadedAt,
		Documents:  snap.Documents(),
		Warnings:   warnings,
	}, nil
}

// SaveSnapshot archives a snapshot and returns the new record ID.
func (db *DB) SaveSnapshot(ctx context.Context, snap *loader.Snapshot) (uuid.UUID, error) {
	record, err := NewRecord(snap)
	if err != nil {
		return uuid.Nil, err
	}

	documents, err := json.Marshal(record.Documents)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal documents: %w", err)
	}
	warnings, err := json.Marshal(record.Warnings)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal warnings: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO stat_snapshots (id, generation, loaded_at, documents, warnings)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.Generation, record.LoadedAt, documents, warnings,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return record.ID, nil
}

// ArchiveSnapshot stores a snapshot, discarding the ID. It lets a DB serve as
// the archiver of a loader.
func (db *DB) ArchiveSnapshot(ctx context.Context, snap *loader.Snapshot) error {
	_, err := db.SaveSnapshot(ctx, snap)
	return err
}

const selectSnapshot = `SELECT id, generation, loaded_at, documents, warnings, created_at FROM stat_snapshots`

// GetSnapshot retrieves a snapshot by ID. Returns nil when it does not exist.
func (db *DB) GetSnapshot(ctx context.Context, id uuid.UUID) (*SnapshotRecord, error) {
	row := db.pool.QueryRow(ctx, selectSnapshot+` WHERE id = $1`, id)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return record, nil
}

// LatestSnapshot retrieves the most recently loaded snapshot, or nil when the archive is empty.
func (db *DB) LatestSnapshot(ctx context.Context) (*SnapshotRecord, error) {
	row := db.pool.QueryRow(ctx, selectSnapshot+` ORDER BY loaded_at DESC, created_at DESC LIMIT 1`)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return record, nil
}

// ListSnapshots retrieves recent snapshots, newest first.
func (db *DB) ListSnapshots(ctx context.Context, limit int) ([]SnapshotSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, generation, loaded_at,
		        ARRAY(SELECT jsonb_object_keys(documents)),
		        jsonb_array_length(warnings)
		 FROM stat_snapshots ORDER BY loaded_at DESC, created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var summaries []SnapshotSummary
	for rows.Next() {
		var s SnapshotSummary
		if err := rows.Scan(&s.ID, &s.Generation, &s.LoadedAt, &s.Documents, &s.WarningCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		sort.Strings(s.Documents)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return summaries, nil
}

func scanRecord(row pgx.Row) (*SnapshotRecord, error) {
	var record SnapshotRecord
	var documents, warnings []byte
	if err := row.Scan(&record.ID, &record.Generation, &record.LoadedAt, &documents, &warnings, &record.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(documents, &record.Documents); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &record.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings: %w", err)
		}
	}
	return &record, nil
}
