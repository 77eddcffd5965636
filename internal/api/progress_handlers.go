package api

import (
	"net/http"

	"github.com/vytor/wortdrill/internal/errors"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/repository"
)

type selectionResponse struct {
	All   bool  `json:"all"`
	Units []int `json:"units"`
}

func newSelectionResponse(sel models.Selection) selectionResponse {
	units := sel.IDs()
	if units == nil {
		units = []int{}
	}
	return selectionResponse{All: sel.IsAll(), Units: units}
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newSelectionResponse(s.Quiz.Selection(r.Context())))
}

// handleSetSelection accepts {"units": [1, 2]}; null or an empty list
// selects every unit.
func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Units models.Selection `json:"units"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	sel, err := s.Quiz.SetSelection(r.Context(), req.Units)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newSelectionResponse(sel))
}

func (s *Server) handleToggleUnit(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newSelectionResponse(s.Quiz.ToggleUnit(r.Context(), id)))
}

type wordRequest struct {
	Word  string `json:"word"`
	Input string `json:"input"`
}

func (s *Server) handleLearned(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Quiz.LearnedWords(r.Context()))
}

func (s *Server) handleMarkLearned(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Quiz.MarkLearned(r.Context(), req.Word); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	result, err := s.Quiz.CheckAnswer(r.Context(), req.Word, req.Input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	result, err := s.Quiz.GiveUp(r.Context(), req.Word, req.Input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleMistakes(w http.ResponseWriter, r *http.Request) {
	frequent := r.URL.Query().Get("filter") == "frequent"
	writeJSON(w, r, http.StatusOK, s.Quiz.Mistakes(r.Context(), frequent))
}

func (s *Server) handleRemoveMistake(w http.ResponseWriter, r *http.Request) {
	word, err := wordParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Quiz.RemoveMistake(r.Context(), word); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTestResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Quiz.TestResults(r.Context()))
}

func (s *Server) handleSaveTestResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode      string `json:"mode"`
		Correct   int    `json:"correct"`
		Total     int    `json:"total"`
		TimeSpent int    `json:"timeSpent"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	result, err := s.Quiz.FinishTest(r.Context(), req.Mode, req.Correct, req.Total, req.TimeSpent)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.Progress.Available() {
		handleError(w, r, errors.NewUnavailableError(repository.ErrUnavailable))
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="wortdrill-progress.json"`)
	writeJSON(w, r, http.StatusOK, s.Progress.Export(r.Context()))
}
