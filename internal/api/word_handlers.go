package api

import (
	"net/http"

	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/models"
)

const defaultSearchLimit = 50

func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, r, http.StatusOK, s.Lexicon.Words())
		return
	}

	limit, err := intQuery(r, "limit", defaultSearchLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("searching words: q=%q limit=%d", q, limit)
	writeJSON(w, r, http.StatusOK, s.Lexicon.Search(q, limit))
}

func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	word, err := wordParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	found, err := s.Lexicon.WordByName(r.Context(), word)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, found)
}

func (s *Server) handleParsedWord(w http.ResponseWriter, r *http.Request) {
	word, err := wordParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	parsed, err := s.Lexicon.Parse(r.Context(), word)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, parsed)
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("view") == "summary" {
		writeJSON(w, r, http.StatusOK, s.Lexicon.UnitList())
		return
	}
	writeJSON(w, r, http.StatusOK, s.Stats.Units(r.Context()))
}

func (s *Server) handleUnitWords(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	words := s.Lexicon.WordsByUnit(r.Context(), id)
	if words == nil {
		words = []models.Word{}
	}
	writeJSON(w, r, http.StatusOK, words)
}
