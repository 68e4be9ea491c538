// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the controller over a local JSON API. It is the
// surface a UI binds to; it owns no paper state of its own.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/paper-shelf/internal/config"
	"github.com/pdiddy/paper-shelf/internal/favorites"
	"github.com/pdiddy/paper-shelf/internal/fetch"
	"github.com/pdiddy/paper-shelf/internal/shelf"
	"github.com/pdiddy/paper-shelf/pkg/types"
)

// Server routes HTTP requests to the controller.
type Server struct {
	ctrl     *shelf.Controller
	settings *config.Store
	router   chi.Router
}

// New builds the server and its routes.
func New(ctrl *shelf.Controller, settings *config.Store) *Server {
	s := &Server{ctrl: ctrl, settings: settings}
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/papers/{category}", s.handlePapers)
		r.Get("/search", s.handleSearch)
		r.Get("/favorites", s.handleFavorites)
		r.Post("/favorites/toggle", s.handleToggle)
		r.Get("/cache", s.handleCacheInfo)
		r.Delete("/cache", s.handleCacheClear)
		r.Get("/settings", s.handleGetSettings)
		r.Post("/settings", s.handleSetSetting)
	})

	s.router = r
}

// handlePapers returns the working set for a category, loading it from
// the remote API when it is empty or ?reload=1 is given.
func (s *Server) handlePapers(w http.ResponseWriter, r *http.Request) {
	cat := types.Category(chi.URLParam(r, "category"))
	if !cat.Valid() {
		httpError(w, http.StatusNotFound, fmt.Errorf("unknown category %q", cat))
		return
	}

	papers := s.ctrl.Papers(cat)
	if _, fetchable := cat.Query(); fetchable && (len(papers) == 0 || r.URL.Query().Get("reload") == "1") {
		loaded, err := s.ctrl.LoadCategory(r.Context(), cat)
		if err != nil {
			var netErr *fetch.NetworkError
			if errors.As(err, &netErr) {
				// The previous contents survive a failed load; report
				// both so the client can show a retryable error state.
				writeJSON(w, http.StatusBadGateway, map[string]any{
					"error":  netErr.Error(),
					"papers": papers,
				})
				return
			}
			httpError(w, http.StatusInternalServerError, err)
			return
		}
		papers = loaded
	}
	writeJSON(w, http.StatusOK, map[string]any{"papers": papers})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httpError(w, http.StatusBadRequest, fmt.Errorf("missing query parameter q"))
		return
	}
	filter := types.Category(r.URL.Query().Get("category"))
	byRelevance := r.URL.Query().Get("relevance") == "1"

	papers, err := s.ctrl.SearchPapers(r.Context(), q, filter, byRelevance)
	if err != nil {
		var netErr *fetch.NetworkError
		if errors.As(err, &netErr) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":  netErr.Error(),
				"papers": s.ctrl.Papers(types.CategorySearch),
			})
			return
		}
		// Anything else is a bad request, such as a blank query.
		httpError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"papers": papers})
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	papers, err := s.ctrl.LoadFavorites()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"papers": papers})
}

// handleToggle flips favorite state for the paper in the request body.
// A durable-store failure still flips the in-memory state; it is reported
// in the response alongside the updated paper.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var paper types.Paper
	if err := json.NewDecoder(r.Body).Decode(&paper); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("decoding paper: %w", err))
		return
	}
	if paper.ID == "" {
		httpError(w, http.StatusBadRequest, fmt.Errorf("paper id is required"))
		return
	}

	updated, err := s.ctrl.ToggleFavorite(paper)
	body := map[string]any{"paper": updated}
	var persistErr *favorites.PersistenceError
	if errors.As(err, &persistErr) {
		body["warning"] = persistErr.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCacheInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"size_bytes":      s.ctrl.CacheSize(),
		"size_limit_mb":   s.settings.Shelf().CacheSizeLimitMB,
		"caching_enabled": s.settings.Shelf().EnableCache,
	})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	if err := s.ctrl.ClearCache(); err != nil {
		// Best-effort sweep: some entries survived. Report which.
		writeJSON(w, http.StatusOK, map[string]any{"warning": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Shelf())
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("decoding setting: %w", err))
		return
	}
	if err := s.settings.Set(req.Key, req.Value); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.settings.Shelf())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
