package server

import (
	"net/http"
	"slices"

	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/jonathan/bpk-stats/internal/views"
)

// Top list documents of the compiled dashboard, by short name.
var legacyTopLists = map[string]string{
	"persons":   types.DocTopPersons,
	"entities":  types.DocTopEntities,
	"countries": types.DocTopCountries,
	"themes":    types.DocTopThemes,
	"sentences": types.DocTopSentences,
}

func (s *Server) handleLegacyFundamental(w http.ResponseWriter, _ *http.Request) {
	bag := views.LegacyFundamentalStats(s.loader.Snapshot())
	if bag == nil {
		s.writeError(w, &ErrNotLoaded{Document: types.DocCompiledStats})
		return
	}
	s.jsonResponse(w, http.StatusOK, bag)
}

func (s *Server) handleLegacyBasics(w http.ResponseWriter, _ *http.Request) {
	bag := views.LegacyStatisticalBasics(s.loader.Snapshot())
	if bag == nil {
		s.writeError(w, &ErrNotLoaded{Document: types.DocCompiledStats})
		return
	}
	s.jsonResponse(w, http.StatusOK, bag)
}

func (s *Server) handleFrequencyNames(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, views.FrequencyDistributionNames(s.loader.Snapshot()))
}

func (s *Server) handleFrequency(w http.ResponseWriter, r *http.Request) {
	snap := s.loader.Snapshot()
	name := r.PathValue("name")
	if !slices.Contains(views.FrequencyDistributionNames(snap), name) {
		s.writeError(w, &ErrNotFound{Resource: "frequency distribution", ID: name})
		return
	}
	s.jsonResponse(w, http.StatusOK, views.FrequencyDistribution(snap, name))
}

func (s *Server) handleFrames(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, views.FrameAnalysis(s.loader.Snapshot()))
}

func (s *Server) handleConnotations(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, views.ConnotationIndex(s.loader.Snapshot(), r.PathValue("topic")))
}

func (s *Server) handleNarratives(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, views.NarrativeIndex(s.loader.Snapshot(), r.PathValue("quarter")))
}

func (s *Server) handleLegacyTop(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	doc, ok := legacyTopLists[name]
	if !ok {
		s.writeError(w, &ErrValidation{Field: "name", Message: "unknown top list " + name})
		return
	}
	s.jsonResponse(w, http.StatusOK, views.TopList(s.loader.Snapshot(), doc))
}
