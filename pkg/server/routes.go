package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler returns the API's root handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging(s.logger))
	r.Use(Recovery(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sort", s.handleSort(false))
		r.Post("/sort/grouped", s.handleSort(true))
	})
	return r
}
