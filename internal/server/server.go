// Package server exposes grid rendering over HTTP. It is a thin surface over
// the plot pipeline: each request gets its own temporary artifact namespace
// and streams the assembled composite back as PNG.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gridplot/gridplot/internal/demo"
	"github.com/gridplot/gridplot/pkg/cache"
	gperrors "github.com/gridplot/gridplot/pkg/errors"
	"github.com/gridplot/gridplot/pkg/grid"
	"github.com/gridplot/gridplot/pkg/plot"
)

const (
	// maxCells caps the grid size accepted over HTTP.
	maxCells = 256

	// shutdownTimeout bounds graceful shutdown on context cancellation.
	shutdownTimeout = 5 * time.Second
)

// Server serves grid renders over HTTP.
type Server struct {
	logger *log.Logger
	router chi.Router
}

// New creates a server with routes registered.
func New(logger *log.Logger) *Server {
	s := &Server{logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/healthz", s.handleHealth)
	r.Get("/render", s.handleRender)
	s.router = r

	return s
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// logRequests logs one line per completed request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// handleRender renders a demo grid from query parameters and streams the
// composite PNG.
//
// Parameters: rows, cols, count, renderer, order, dpi, cell-width,
// cell-height, col-labels, row-labels (labels comma-separated).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, renderer, count, err := parseRenderQuery(r)
	if err != nil {
		http.Error(w, gperrors.UserMessage(err), http.StatusBadRequest)
		return
	}

	render, err := demo.Lookup(renderer)
	if err != nil {
		http.Error(w, gperrors.UserMessage(err), http.StatusBadRequest)
		return
	}

	// Each request renders into its own throwaway namespace so concurrent
	// requests never collide.
	opts.CacheDir = cache.TempDir()
	opts.Logger = s.logger

	comp, err := plot.Generate(r.Context(), render, demo.Items(count), opts)
	if err != nil {
		status := http.StatusInternalServerError
		switch gperrors.GetCode(err) {
		case gperrors.ErrCodeInvalidShape, gperrors.ErrCodeInvalidCellSize,
			gperrors.ErrCodeInvalidTotal, gperrors.ErrCodeInvalidLabels,
			gperrors.ErrCodeInvalidOrder, gperrors.ErrCodeInvalidInput:
			status = http.StatusBadRequest
		}
		s.logger.Error("render failed", "error", err)
		http.Error(w, gperrors.UserMessage(err), status)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := comp.EncodePNG(w); err != nil {
		s.logger.Error("stream composite", "error", err)
	}
}

// parseRenderQuery extracts plot options from the request query.
func parseRenderQuery(r *http.Request) (plot.Options, string, int, error) {
	q := r.URL.Query()

	rows, err := intParam(q.Get("rows"), 2)
	if err != nil {
		return plot.Options{}, "", 0, err
	}
	cols, err := intParam(q.Get("cols"), 3)
	if err != nil {
		return plot.Options{}, "", 0, err
	}
	dpi, err := intParam(q.Get("dpi"), 25)
	if err != nil {
		return plot.Options{}, "", 0, err
	}
	count, err := intParam(q.Get("count"), rows*cols)
	if err != nil {
		return plot.Options{}, "", 0, err
	}
	// Items are built from count before the pipeline validates, so a
	// negative value must be rejected here.
	if count < 0 {
		return plot.Options{}, "", 0, gperrors.New(gperrors.ErrCodeInvalidTotal, "count must not be negative, got %d", count)
	}

	if rows*cols > maxCells {
		return plot.Options{}, "", 0, gperrors.New(gperrors.ErrCodeInvalidShape, "grid %dx%d exceeds the %d cell limit", rows, cols, maxCells)
	}

	order := grid.RowMajor
	if o := q.Get("order"); o != "" {
		order, err = grid.ParseOrder(o)
		if err != nil {
			return plot.Options{}, "", 0, err
		}
	}

	cellW, err := floatParam(q.Get("cell-width"), 2)
	if err != nil {
		return plot.Options{}, "", 0, err
	}
	cellH, err := floatParam(q.Get("cell-height"), 2)
	if err != nil {
		return plot.Options{}, "", 0, err
	}

	renderer := q.Get("renderer")
	if renderer == "" {
		renderer = "sine"
	}

	opts := plot.Options{
		Shape:     grid.Shape{Rows: rows, Cols: cols},
		CellSize:  grid.CellSize{Width: cellW, Height: cellH},
		DPI:       dpi,
		Order:     order,
		ColLabels: splitLabels(q.Get("col-labels")),
		RowLabels: splitLabels(q.Get("row-labels")),
	}
	return opts, renderer, count, nil
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, gperrors.New(gperrors.ErrCodeInvalidInput, "not a number: %q", s)
	}
	return v, nil
}

func floatParam(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, gperrors.New(gperrors.ErrCodeInvalidInput, "not a number: %q", s)
	}
	return v, nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
