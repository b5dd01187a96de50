package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	r.Get("/status", s.handleStatus)
	r.Get("/decks", s.handleDecks)
	r.Get("/decks/{id}/new-cards", s.handleNewCards)
	r.Post("/notes/{id}/append", s.handleAppend)
	r.Post("/bridge/{method}", s.handleBridgeCall)
	return r
}
