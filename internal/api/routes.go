package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const requestTimeout = 30 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(bodyLimitMiddleware(maxBodyBytes))
	r.Use(timeoutMiddleware(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/words", s.handleWords)
		r.Get("/words/{word}", s.handleWord)
		r.Get("/words/{word}/parsed", s.handleParsedWord)

		r.Get("/units", s.handleUnits)
		r.Get("/units/{id}/words", s.handleUnitWords)

		r.Get("/selection", s.handleSelection)
		r.Put("/selection", s.handleSetSelection)
		r.Post("/selection/toggle/{id}", s.handleToggleUnit)

		r.Get("/learned", s.handleLearned)
		r.Post("/learned", s.handleMarkLearned)

		r.Post("/answers", s.handleAnswer)
		r.Post("/answers/give-up", s.handleGiveUp)

		r.Get("/mistakes", s.handleMistakes)
		r.Delete("/mistakes/{word}", s.handleRemoveMistake)

		r.Get("/test-results", s.handleTestResults)
		r.Post("/test-results", s.handleSaveTestResult)

		r.Get("/review", s.handleReview)
		r.Get("/test-words", s.handleTestWords)

		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
	})
	return r
}
