// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package web serves generated fractals over HTTP.
//
// Routes:
//
//	GET /api/strategies           strategy names and labels
//	POST /api/render/{strategy}   generate an artifact, returns its timing
//	GET /api/progress             websocket stream of parallel band progress
//	GET /artifacts/{name}         generated images
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/zeromicro/go-zero/core/syncx"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/report"
)

const shutdownTimeout = 5 * time.Second

// Server renders fractals on request and serves the artifacts.
type Server struct {
	cfg    fractal.Config
	dir    string
	flight syncx.SingleFlight
	log    *slog.Logger
}

// New returns a server rendering cfg into dir.
func New(cfg fractal.Config, dir string) *Server {
	return &Server{
		cfg:    cfg,
		dir:    dir,
		flight: syncx.NewSingleFlight(),
		log:    fractal.Logger().With("component", "web"),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/strategies", s.handleStrategies)
	mux.HandleFunc("POST /api/render/{strategy}", s.handleRender)
	mux.HandleFunc("GET /api/progress", s.handleProgress)
	mux.Handle("GET /artifacts/", http.StripPrefix("/artifacts/", http.FileServer(http.Dir(s.dir))))
	return mux
}

// Run listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("preview server listening", "addr", "http://"+ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type strategyInfo struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Artifact string `json:"artifact"`
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	all := fractal.Strategies()
	out := make([]strategyInfo, 0, len(all))
	for _, st := range all {
		out = append(out, strategyInfo{Name: st.String(), Label: st.Label(), Artifact: st.ArtifactName()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRender generates one artifact. Concurrent requests for the same
// strategy share a single render and its result.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	st, err := fractal.ParseStrategy(r.PathValue("strategy"))
	if err != nil {
		writeError(w, err)
		return
	}

	v, err := s.flight.Do(st.String(), func() (any, error) {
		// Outlives the request: other waiters may share this render.
		return fractal.Generate(context.WithoutCancel(r.Context()), st, s.cfg, s.dir)
	})
	if err != nil {
		s.log.Warn("render request failed", "strategy", st, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewResultJSON(v.(fractal.Result)))
}

// ProgressMessage is one frame of the /api/progress stream.
type ProgressMessage struct {
	Type      string  `json:"type"` // "band", "done" or "error"
	Band      int     `json:"band,omitempty"`
	MinY      int     `json:"minY,omitempty"`
	Rows      int     `json:"rows,omitempty"`
	Total     int     `json:"total,omitempty"`
	ElapsedMS float64 `json:"elapsedMs,omitempty"`
	Error     string  `json:"error,omitempty"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", "err", err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	if err := s.streamProgress(ctx, c); err != nil {
		s.log.Debug("progress stream ended", "err", err)
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) streamProgress(ctx context.Context, c *websocket.Conn) error {
	bands := make(chan fractal.Band, 64)
	g, gctx := errgroup.WithContext(ctx)

	var elapsed time.Duration
	g.Go(func() error {
		defer close(bands)
		var err error
		elapsed, err = fractal.Time(func() error {
			_, rerr := fractal.RenderParallelWithProgress(s.cfg, func(b fractal.Band) {
				select {
				case bands <- b:
				case <-gctx.Done():
				}
			})
			return rerr
		})
		return err
	})
	g.Go(func() error {
		for b := range bands {
			if gctx.Err() != nil {
				continue
			}
			msg := ProgressMessage{Type: "band", Band: b.Index, MinY: b.MinY, Rows: b.Rows, Total: b.Total}
			if err := wsjson.Write(gctx, c, msg); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		_ = wsjson.Write(ctx, c, ProgressMessage{Type: "error", Error: err.Error()})
		return err
	}
	return wsjson.Write(ctx, c, ProgressMessage{Type: "done", ElapsedMS: fractal.Millis(elapsed)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = report.WriteJSON(w, v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fractal.ErrUnknownStrategy):
		return http.StatusNotFound
	case errors.Is(err, fractal.ErrBackendUnavailable),
		errors.Is(err, fractal.ErrInteractiveUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, fractal.ErrInvalidGrid),
		errors.Is(err, fractal.ErrInvalidViewport),
		errors.Is(err, fractal.ErrInvalidIterations),
		errors.Is(err, fractal.ErrInvalidPalette):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
