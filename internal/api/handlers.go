package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wortdrill/internal/errors"
	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/progress"
	"github.com/vytor/wortdrill/internal/services"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Lexicon  services.LexiconService
	Quiz     services.QuizService
	Stats    services.StatsService
	Progress *progress.Store
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case err == io.EOF:
			return errors.NewBadRequestError("request body is empty")
		case stderrors.As(err, &tooLarge):
			return errors.NewBadRequestError("request body too large")
		}
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

// wordParam returns the {word} path segment, unescaped.
func wordParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "word")
	word, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.NewBadRequestError("invalid word in path")
	}
	if strings.TrimSpace(word) == "" {
		return "", errors.NewValidationError("word", "cannot be empty")
	}
	return word, nil
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, errors.NewBadRequestError("invalid " + name)
	}
	return v, nil
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid " + name + " parameter")
	}
	return v, nil
}
