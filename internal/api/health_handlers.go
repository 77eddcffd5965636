package api

import (
	"net/http"

	"github.com/vytor/wortdrill/internal/logger"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady reports 200 once the lexicon is loaded. Running without
// persistence is reported but does not fail readiness.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	persistent := s.Progress != nil && s.Progress.Available()
	if !persistent {
		log.Warn("readiness: progress storage unavailable, serving without persistence")
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":     "ready",
		"words":      s.Lexicon.Count(),
		"persistent": persistent,
	})
}
