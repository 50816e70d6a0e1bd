package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/bpk-stats/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore implements SnapshotStore in memory
type mockStore struct {
	records   map[uuid.UUID]*db.SnapshotRecord
	lastLimit int
	err       error
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[uuid.UUID]*db.SnapshotRecord)}
}

func (m *mockStore) add(gen int64) *db.SnapshotRecord {
	rec := &db.SnapshotRecord{
		ID:         uuid.New(),
		Generation: gen,
		LoadedAt:   time.Date(2025, 3, 12, 10, int(gen), 0, 0, time.UTC),
		Documents:  map[string]json.RawMessage{"content_stats": json.RawMessage(`{"header_kpis":{}}`)},
	}
	m.records[rec.ID] = rec
	return rec
}

func (m *mockStore) ListSnapshots(_ context.Context, limit int) ([]db.SnapshotSummary, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	var out []db.SnapshotSummary
	for _, rec := range m.records {
		out = append(out, db.SnapshotSummary{ID: rec.ID, Generation: rec.Generation, LoadedAt: rec.LoadedAt, Documents: []string{"content_stats"}})
	}
	return out, nil
}

func (m *mockStore) GetSnapshot(_ context.Context, id uuid.UUID) (*db.SnapshotRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records[id], nil
}

func TestSnapshots_Disabled(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	for _, path := range []string{"/snapshots", "/snapshots/" + uuid.NewString()} {
		w := do(t, s.Handler(), http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotImplemented, w.Code, path)
		assert.Contains(t, w.Body.String(), "snapshot archive is not enabled")
	}
}

func TestListSnapshots(t *testing.T) {
	store := newMockStore()
	store.add(1)
	store.add(2)
	s, _ := newTestServer(t, Options{Store: store})
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/snapshots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]db.SnapshotSummary](t, w), 2)
	assert.Equal(t, db.DefaultListLimit, store.lastLimit)

	w = do(t, h, http.MethodGet, "/snapshots?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, store.lastLimit)

	for _, bad := range []string{"0", "-1", "abc", "501"} {
		w = do(t, h, http.MethodGet, "/snapshots?limit="+bad, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestListSnapshots_Empty(t *testing.T) {
	s, _ := newTestServer(t, Options{Store: newMockStore()})

	w := do(t, s.Handler(), http.MethodGet, "/snapshots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetSnapshot(t *testing.T) {
	store := newMockStore()
	rec := store.add(7)
	s, _ := newTestServer(t, Options{Store: store})
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/snapshots/"+rec.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[db.SnapshotRecord](t, w)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, int64(7), got.Generation)
	assert.JSONEq(t, `{"header_kpis":{}}`, string(got.Documents["content_stats"]))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/snapshots/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/snapshots/not-a-uuid", nil).Code)
}

func TestSnapshots_StoreError(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("connection refused")
	s, _ := newTestServer(t, Options{Store: store})

	w := do(t, s.Handler(), http.MethodGet, "/snapshots", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
