// Package web serves a finished output tree for preview: the rewritten
// pages as static files, the manifest as JSON and full-text search over the
// optional index.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/manifest"
	"github.com/togaf-epub/togafcleanup/internal/search"
)

// Searcher queries the page index.
type Searcher interface {
	Search(ctx context.Context, query, part string, limit, offset int) (search.SearchResponse, error)
}

type Server struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
	search Searcher
	router chi.Router
}

type manifestResponse struct {
	Total   int               `json:"total"`
	Records []manifest.Record `json:"records"`
}

// NewServer serves the output tree at root. searcher may be nil, in which
// case the search endpoint reports the index as unavailable.
func NewServer(root string, cfg *config.Config, searcher Searcher, logger *slog.Logger) *Server {
	s := &Server{
		root:   root,
		cfg:    cfg,
		logger: logger,
		search: searcher,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Compress(5, "text/html", "text/css", "text/plain", "application/json", "application/xml"))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/manifest", s.handleManifest)
	r.Get("/api/search", s.handleSearch)
	r.Handle("/*", http.FileServer(http.Dir(s.root)))

	s.router = r
}

func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "addr", addr, "root", s.root)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(s.cfg.ManifestName)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "manifest not found")
			return
		}
		s.logger.Error("open manifest", "error", err)
		writeError(w, http.StatusInternalServerError, "manifest unreadable")
		return
	}
	defer func() { _ = f.Close() }()

	records, err := manifest.Read(f)
	if err != nil {
		s.logger.Error("read manifest", "error", err)
		writeError(w, http.StatusInternalServerError, "manifest unreadable")
		return
	}
	if records == nil {
		records = []manifest.Record{}
	}
	writeJSON(w, http.StatusOK, manifestResponse{Total: len(records), Records: records})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeError(w, http.StatusServiceUnavailable, "search index unavailable")
		return
	}

	q := r.URL.Query()
	results, err := s.search.Search(r.Context(), q.Get("q"), q.Get("part"), parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		s.logger.Error("search failed", "query", q.Get("q"), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
