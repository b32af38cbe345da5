package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/FocuswithJustin/Lectern/core/errors"
	"github.com/FocuswithJustin/Lectern/core/search"
	"github.com/FocuswithJustin/Lectern/internal/refparse"
	"github.com/FocuswithJustin/Lectern/internal/transport"
)

// APIResponse is the envelope for all JSON responses.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError carries a machine code and a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Mode      string `json:"mode"`
	Documents int    `json:"documents"`
}

var startTime = time.Now()

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"name":    "Lectern API",
		"version": s.cfg.Version,
		"endpoints": []string{
			"GET /health",
			"GET /api/v1/metadata",
			"GET /api/v1/chapter?document=&chapter=",
			"GET /api/v1/search?q=&limit=",
			"GET /api/v1/reference?q=",
			"WS  /ws/search",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	respond(w, http.StatusOK, HealthInfo{
		Status:    "healthy",
		Version:   s.cfg.Version,
		Uptime:    time.Since(startTime).String(),
		Mode:      s.store.Mode().String(),
		Documents: s.store.IndexMetadata().Len(),
	})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	respond(w, http.StatusOK, s.store.IndexMetadata())
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	query := r.URL.Query().Get("document")
	doc, ok := s.store.ResolveDocumentName(query)
	if !ok {
		respondError(w, http.StatusNotFound, "UNKNOWN_DOCUMENT", "No document matches "+strconv.Quote(query))
		return
	}

	chapter, err := strconv.Atoi(r.URL.Query().Get("chapter"))
	if err != nil || chapter < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_CHAPTER", "chapter must be a positive integer")
		return
	}
	if max := s.store.ChapterCount(doc); chapter > max {
		chapter = max
	}

	verses, err := s.store.GetChapter(r.Context(), doc, chapter)
	if err != nil {
		if errors.Is(err, errors.ErrMissingDocument) {
			respondError(w, http.StatusBadGateway, "MISSING_DOCUMENT", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"document": doc,
		"chapter":  chapter,
		"verses":   verses,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "EMPTY_QUERY", "q is required")
		return
	}

	limit := search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	// Each request is its own search session over a fresh transport pair:
	// the engine sees only the metadata snapshot and pulls chapters
	// through the store-owning context.
	client, stop := transport.NewLocalPair(r.Context(), s.store)
	defer stop()

	meta, err := client.Metadata(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	engine := search.NewEngine(meta, client)
	hits, err := engine.Search(r.Context(), query, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SEARCH_FAILED", err.Error())
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"query": query,
		"limit": limit,
		"hits":  hits,
		"total": len(hits),
	})
}

func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	input := r.URL.Query().Get("q")
	ref, err := refparse.Parse(input, s.store)
	if err != nil {
		respondError(w, http.StatusNotFound, "UNRESOLVABLE_REFERENCE", err.Error())
		return
	}

	respond(w, http.StatusOK, ref)
}
