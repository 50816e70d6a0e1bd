package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/bpk-stats/internal/db"
)

// handleListSnapshots lists archived snapshots, newest first
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrUnavailable{Feature: "snapshot archive"})
		return
	}

	limit := db.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be between 1 and 500"})
			return
		}
		limit = n
	}

	summaries, err := s.store.ListSnapshots(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []db.SnapshotSummary{}
	}
	s.jsonResponse(w, http.StatusOK, summaries)
}

// handleGetSnapshot returns one archived snapshot with its documents
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrUnavailable{Feature: "snapshot archive"})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	record, err := s.store.GetSnapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if record == nil {
		s.writeError(w, &ErrNotFound{Resource: "snapshot", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}
