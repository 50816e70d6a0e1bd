package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/server/middleware"
	"go.uber.org/zap"
)

// StateResponse represents the response for /state and each /events message
type StateResponse struct {
	Phase      loader.Phase     `json:"phase"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
	Generation uint64           `json:"generation"`
	ChangedAt  time.Time        `json:"changed_at"`
	LoadedAt   *time.Time       `json:"loaded_at,omitempty"`
	Documents  []string         `json:"documents"`
	Warnings   []loader.Warning `json:"warnings"`
}

func newStateResponse(st loader.State) StateResponse {
	resp := StateResponse{
		Phase:      st.Phase,
		Loading:    st.Loading(),
		Error:      st.Message,
		Generation: st.Generation,
		ChangedAt:  st.ChangedAt,
		Documents:  []string{},
		Warnings:   []loader.Warning{},
	}
	if snap := st.Snapshot; snap != nil {
		loadedAt := snap.LoadedAt
		resp.LoadedAt = &loadedAt
		resp.Documents = append(resp.Documents, snap.Loaded...)
		resp.Warnings = append(resp.Warnings, snap.Warnings...)
	}
	return resp
}

// handleState returns the loader state
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, newStateResponse(s.loader.State()))
}

// handleEvents streams state changes, starting with the current state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	states, unsubscribe := s.loader.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if err := sse.WriteEvent("state", newStateResponse(st)); err != nil {
				s.logger.Debug("event stream closed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := sse.WriteKeepAlive(); err != nil {
				return
			}
		}
	}
}

// handleDocument returns the raw body of one loaded document
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	raw, ok := s.loader.Snapshot().Raw(name)
	if !ok {
		if !s.configured(name) {
			s.writeError(w, &ErrNotFound{Resource: "document", ID: name})
			return
		}
		s.writeError(w, &ErrNotLoaded{Document: name})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		s.logger.Debug("failed to write document", zap.String("document", name), zap.Error(err))
	}
}

func (s *Server) configured(name string) bool {
	for _, doc := range s.loader.Documents() {
		if doc.Name == name {
			return true
		}
	}
	return false
}

// handleReload re-fetches every document. The reload runs in the background
// and the request returns 202, unless ?wait=true asks for the final state.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	subject, _ := middleware.GetSubject(r)
	if s.ctx.Err() != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	s.logger.Info("reload requested", zap.String("subject", subject))

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		st := s.loader.Reload(r.Context())
		s.jsonResponse(w, http.StatusOK, newStateResponse(st))
		return
	}

	s.reloads.Add(1)
	go func() {
		defer s.reloads.Done()
		s.loader.Reload(s.ctx)
	}()
	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "reloading"})
}
