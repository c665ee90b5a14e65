// Package server implements the chart preview server.
//
// The server renders the charts of a definition file as a live HTML page.
// Charts are loaded through a [Source]; every [Server.Reload] rebuilds the
// registry and tells connected browsers to reload over a websocket.
//
// Routes:
//
//	GET /                   preview page of all charts
//	GET /charts             {"title": ..., "ids": [...]}
//	GET /charts/{id}.js     chart script, rendering into #chart-<id>
//	GET /charts/{id}/options option object (?pretty=1 to indent)
//	GET /ws                 live reload channel
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chartkit/pkg/buildinfo"
	"github.com/matzehuels/chartkit/pkg/chart"
	"github.com/matzehuels/chartkit/pkg/definition"
	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/observability"
	"github.com/matzehuels/chartkit/pkg/render"
)

// shutdownTimeout bounds graceful shutdown in Serve.
const shutdownTimeout = 5 * time.Second

// Snapshot is one loaded set of charts. It is never modified after the
// Source returns it, so requests share it read-only.
type Snapshot struct {
	Title  string
	Charts *chart.Registry
	Loaded time.Time
}

// Source loads a fresh snapshot.
type Source func(ctx context.Context) (*Snapshot, error)

// FileSource loads and builds the definition file at path.
func FileSource(path string) Source {
	return func(ctx context.Context) (*Snapshot, error) {
		doc, err := definition.Load(path)
		if err != nil {
			return nil, err
		}
		reg, err := doc.Build()
		if err != nil {
			return nil, err
		}
		return &Snapshot{Title: doc.Title, Charts: reg}, nil
	}
}

// Server serves the charts of the current snapshot.
type Server struct {
	source Source
	runner *render.Runner
	logger *log.Logger
	hub    *hub

	mu      sync.RWMutex
	snap    *Snapshot
	lastErr error
}

// New creates a server. Nothing is loaded until the first Reload.
// A nil runner renders without a cache; a nil logger uses log.Default().
func New(source Source, runner *render.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = render.NewRunner(nil, nil, logger)
	}
	return &Server{
		source: source,
		runner: runner,
		logger: logger,
		hub:    newHub(logger),
	}
}

// Reload rebuilds the snapshot from the source and notifies live reload
// clients. On error the previous snapshot stays in place.
func (s *Server) Reload(ctx context.Context) error {
	start := time.Now()
	snap, err := s.source(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		observability.Server().OnReload(ctx, 0, time.Since(start), err)
		return err
	}
	snap.Loaded = time.Now()

	s.mu.Lock()
	s.snap, s.lastErr = snap, nil
	s.mu.Unlock()

	observability.Server().OnReload(ctx, snap.Charts.Len(), time.Since(start), nil)
	s.hub.broadcast(message{Type: msgReload, IDs: snap.Charts.IDs()})
	return nil
}

// Snapshot returns the current snapshot, or the last load error if nothing
// was loaded yet.
func (s *Server) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		if s.lastErr != nil {
			return nil, s.lastErr
		}
		return nil, errs.New(errs.ErrCodeNotFound, "no charts loaded")
	}
	return s.snap, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/", s.handleIndex)
	r.Get("/charts", s.handleList)
	r.Get("/charts/{id}.js", s.handleScript)
	r.Get("/charts/{id}/options", s.handleOptions)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving charts", "addr", addr, "version", buildinfo.Version)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Snapshot()
	if err != nil {
		s.fail(w, err)
		return
	}
	page, err := s.runner.RenderPage(r.Context(), snap.Charts, render.Options{
		Title:      snap.Title,
		LiveReload: true,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page.Output)
}

type listResponse struct {
	Title  string    `json:"title"`
	IDs    []string  `json:"ids"`
	Loaded time.Time `json:"loaded"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Snapshot()
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{
		Title:  snap.Title,
		IDs:    snap.Charts.IDs(),
		Loaded: snap.Loaded,
	})
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, render.Options{Format: render.FormatScript}, "application/javascript; charset=utf-8")
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts := render.Options{Format: render.FormatOptions}
	if r.URL.Query().Get("pretty") != "" {
		opts.Pretty = true
	}
	s.serveChart(w, r, opts, "text/plain; charset=utf-8")
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, opts render.Options, contentType string) {
	snap, err := s.Snapshot()
	if err != nil {
		s.fail(w, err)
		return
	}
	c, err := snap.Charts.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.runner.Render(r.Context(), c, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(res.Output)
}

// fail writes err with a status derived from its code.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errs.GetCode(err) {
	case errs.ErrCodeChartNotFound:
		status = http.StatusNotFound
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound,
		errs.ErrCodeInvalidDefinition, errs.ErrCodeInvalidFormat:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	http.Error(w, errs.UserMessage(err), status)
}

// instrument reports every request to the server hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.Server().OnRequest(r.Context(), r.Method, route, status, time.Since(start))
	})
}
