// Package server exposes the processing pipeline over HTTP for the review
// UI. It serves the processed artifact only; raw-document storage and
// delivery belong to other systems.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/flowlens/flowlens/pkg/cache"
	"github.com/flowlens/flowlens/pkg/errors"
	"github.com/flowlens/flowlens/pkg/export"
	"github.com/flowlens/flowlens/pkg/loader"
	"github.com/flowlens/flowlens/pkg/statemachine"
)

// Options configures the server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Cache stores processed graphs keyed by document content.
	// Defaults to a null cache.
	Cache cache.Cache
	// CacheTTL bounds how long cached graphs live. 0 means forever.
	CacheTTL time.Duration
	// Logger receives request logs. Defaults to log.Default().
	Logger *log.Logger
}

// Server processes raw state-machine documents over HTTP.
type Server struct {
	opts   Options
	router chi.Router
}

// New creates a Server with its routes mounted.
func New(opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{opts: opts}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Get("/healthz", s.handleHealth)
	r.Post("/api/process", s.handleProcess)
	s.router = r

	return s
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.opts.Logger.Info("listening", "addr", s.opts.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleProcess accepts a raw state-machine document (JSON or YAML) and
// returns the canonical graph. Identical documents are served from cache.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	doc, err := loader.LoadReader(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	key := cache.DocumentKey(doc)
	if data, ok, cerr := s.opts.Cache.Get(r.Context(), key); cerr == nil && ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	sm, err := statemachine.Process(doc)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := export.MarshalJSON(sm)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode graph"))
		return
	}

	if err := s.opts.Cache.Set(r.Context(), key, data, s.opts.CacheTTL); err != nil {
		// Cache failures degrade to recomputation, never to request failure.
		s.opts.Logger.Warn("cache set failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// errorResponse is the wire shape for failed requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidStates,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
