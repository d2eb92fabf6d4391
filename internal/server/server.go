// Package server exposes the enrichment, categorization and generation
// pipelines over HTTP for the SPA.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/leadforge/internal/config"
	"github.com/sells-group/leadforge/internal/enrich"
	"github.com/sells-group/leadforge/internal/generate"
	"github.com/sells-group/leadforge/internal/store"
	"github.com/sells-group/leadforge/pkg/apollo"
)

// Server wires the pipelines to HTTP handlers.
type Server struct {
	enricher    *enrich.Enricher
	categorizer *enrich.Categorizer
	generator   *generate.Generator
	apollo      apollo.Client
	store       store.Store
	cfg         *config.Config
}

// New creates a Server.
func New(cfg *config.Config, enricher *enrich.Enricher, categorizer *enrich.Categorizer, generator *generate.Generator, apolloClient apollo.Client, st store.Store) *Server {
	return &Server{
		enricher:    enricher,
		categorizer: categorizer,
		generator:   generator,
		apollo:      apolloClient,
		store:       st,
		cfg:         cfg,
	}
}

// Router builds the chi router with CORS and the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/contacts/enrich", s.handleEnrichContacts)
		r.Post("/contacts/categorize", s.handleCategorizeContacts)
		r.Post("/person/enrich", s.handleEnrichPerson)
		r.Get("/magnets", s.handleListMagnets)
		r.Post("/magnets/generate", s.handleGenerateMagnet)
		r.Post("/magnets/{id}/download", s.handleDownloadMagnet)
		r.Post("/strategy/generate", s.handleGenerateStrategy)
		r.Post("/messages/generate", s.handleGenerateMessages)
	})

	return r
}
