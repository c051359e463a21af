// Package server assembles the mock Spotfire engines and their HTTP routes.
//
// The three engines are constructed once per server and passed into the
// handlers by reference; there are no package-level globals, so tests that
// need isolation simply build a fresh server.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scrankin/spotfire-community/internal/api"
	"github.com/scrankin/spotfire-community/pkg/automation"
	"github.com/scrankin/spotfire-community/pkg/library"
)

// Server owns the mock engines and exposes them over HTTP.
type Server struct {
	store    *library.Store
	uploads  *library.UploadManager
	registry *automation.Registry

	notFoundPolicy api.DefinitionNotFoundPolicy
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry replaces the default job registry. Tests use this to inject
// a registry with a fake clock or a short finish threshold.
func WithRegistry(registry *automation.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithDefinitionNotFoundPolicy overrides the definition-not-found policy.
func WithDefinitionNotFoundPolicy(policy api.DefinitionNotFoundPolicy) Option {
	return func(s *Server) {
		s.notFoundPolicy = policy
	}
}

// New creates a server with freshly seeded engines.
func New(opts ...Option) *Server {
	store := library.NewStore()
	s := &Server{
		store:          store,
		uploads:        library.NewUploadManager(store),
		registry:       automation.NewRegistry(),
		notFoundPolicy: api.DefinitionNotFoundFailedResponse,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig creates a server from a loaded configuration.
func NewFromConfig(cfg *Config) (*Server, error) {
	policy, err := cfg.definitionNotFoundPolicy()
	if err != nil {
		return nil, err
	}
	return New(
		WithRegistry(automation.NewRegistry(automation.WithFinishAfter(cfg.JobFinishAfter))),
		WithDefinitionNotFoundPolicy(policy),
	), nil
}

// Store returns the library content store.
func (s *Server) Store() *library.Store {
	return s.store
}

// Registry returns the job registry.
func (s *Server) Registry() *automation.Registry {
	return s.registry
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	auth := api.NewAuthHandler()
	libraryHandler := api.NewLibraryHandler(s.store, s.uploads)
	automationHandler := api.NewAutomationHandler(s.registry,
		api.WithDefinitionNotFoundPolicy(s.notFoundPolicy))

	r.Post("/spotfire/oauth2/token", auth.Token)
	r.Mount("/spotfire/api/rest/library/v2", libraryHandler.Routes())
	r.Mount("/spotfire/api/rest/as", automationHandler.Routes())

	return r
}
