package api

import (
	"net/http"

	"github.com/vytor/wortdrill/internal/services"
)

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	unitID, err := intQuery(r, "unit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	words, err := s.Quiz.ReviewWords(r.Context(), unitID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, words)
}

func (s *Server) handleTestWords(w http.ResponseWriter, r *http.Request) {
	unitID, err := intQuery(r, "unit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	count, err := intQuery(r, "count", services.DefaultTestSize)
	if err != nil {
		handleError(w, r, err)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" && unitID > 0 {
		source = services.SourceUnit
	}
	words, err := s.Quiz.TestWords(r.Context(), source, unitID, count, nil)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, words)
}
