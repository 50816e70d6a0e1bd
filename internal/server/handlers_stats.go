package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/jonathan/bpk-stats/internal/views"
)

// TopLists served by /stats/top/{list}.
var topLists = []string{"persons", "locations", "organizations", "topics", "speakers"}

// handleFundamental returns the header KPIs
func (s *Server) handleFundamental(w http.ResponseWriter, _ *http.Request) {
	fs := views.Fundamental(s.loader.Snapshot())
	if fs == nil {
		s.writeError(w, &ErrNotLoaded{Document: types.DocContentStats})
		return
	}
	s.jsonResponse(w, http.StatusOK, fs)
}

// handleBasics returns the statistical basics
func (s *Server) handleBasics(w http.ResponseWriter, _ *http.Request) {
	basics := views.Basics(s.loader.Snapshot())
	if basics == nil {
		s.writeError(w, &ErrNotLoaded{Document: types.DocContentStats})
		return
	}
	s.jsonResponse(w, http.StatusOK, basics)
}

// handleTop returns one ranked list. Lists are empty until loaded.
func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	snap := s.loader.Snapshot()

	switch list := r.PathValue("list"); list {
	case "persons":
		s.jsonResponse(w, http.StatusOK, views.TopPersons(snap))
	case "locations":
		s.jsonResponse(w, http.StatusOK, views.TopLocations(snap))
	case "organizations":
		s.jsonResponse(w, http.StatusOK, views.TopOrganizations(snap))
	case "topics":
		s.jsonResponse(w, http.StatusOK, views.TopTopics(snap))
	case "speakers":
		s.jsonResponse(w, http.StatusOK, views.TopSpeakers(snap))
	default:
		s.writeError(w, &ErrValidation{Field: "list", Message: "must be one of " + strings.Join(topLists, ", ")})
	}
}

// handleTimeline returns one entry per BPK
func (s *Server) handleTimeline(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, views.Timeline(s.loader.Snapshot()))
}

// handleBPKAnalysis returns the speaker analysis of one BPK
func (s *Server) handleBPKAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	analysis := views.BPKAnalysis(s.loader.Snapshot(), id)
	if analysis == nil {
		s.writeError(w, &ErrNotFound{Resource: "bpk analysis", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}
