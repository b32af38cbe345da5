// Package api provides the Lectern REST API and the WebSocket transport
// endpoint for remote searchers.
package api

import (
	"net/http"

	"github.com/FocuswithJustin/Lectern/core/store"
	"github.com/FocuswithJustin/Lectern/internal/logging"
	"github.com/FocuswithJustin/Lectern/internal/transport"
)

// Config holds the API server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8317".
	Addr string
	// Version is reported by the health endpoint.
	Version string
}

// Server serves queries against one explicitly owned document store.
type Server struct {
	cfg   Config
	store *store.Store
}

// NewServer creates an API server over an initialized store.
func NewServer(cfg Config, st *store.Store) *Server {
	return &Server{cfg: cfg, store: st}
}

// Routes configures all HTTP routes.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/metadata", s.handleMetadata)
	mux.HandleFunc("/api/v1/chapter", s.handleChapter)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/api/v1/reference", s.handleReference)
	mux.HandleFunc("/ws/search", transport.WSHandler(s.store))

	return mux
}

// Start runs the server until the listener fails.
func (s *Server) Start() error {
	logging.ServerStartup("rest_api", s.cfg.Addr,
		"mode", s.store.Mode().String(),
		"documents", s.store.IndexMetadata().Len())
	return http.ListenAndServe(s.cfg.Addr, s.Routes())
}
