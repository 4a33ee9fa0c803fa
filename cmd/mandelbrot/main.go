// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command mandelbrot renders the Mandelbrot set and compares how fast the
// sequential, parallel and GPU strategies produce it.
//
// Without a mode flag it opens the terminal menu.
//
//	mandelbrot -compare serial,parallel
//	mandelbrot -strategy gpu -out ./renders
//	mandelbrot -interactive
//	mandelbrot -serve -config run.yaml
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/gops/agent"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/fractal"
	_ "github.com/gogpu/fractal/gpu" // registers the accelerated backend
	"github.com/gogpu/fractal/internal/config"
	"github.com/gogpu/fractal/internal/menu"
	"github.com/gogpu/fractal/internal/report"
	"github.com/gogpu/fractal/internal/web"
)

type options struct {
	configPath  string
	outDir      string
	strategy    string
	compare     string
	interactive bool
	serve       bool
	jsonOut     bool
	noPreview   bool
	gops        bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "run configuration file (yaml, json or toml)")
	flag.StringVar(&opts.outDir, "out", "", "artifact directory (overrides the config file)")
	flag.StringVar(&opts.strategy, "strategy", "", "generate once with `name`: sequential, parallel or accelerated")
	flag.StringVar(&opts.compare, "compare", "", "compare two strategies, e.g. `serial,gpu`")
	flag.BoolVar(&opts.interactive, "interactive", false, "open the live GPU view")
	flag.BoolVar(&opts.serve, "serve", false, "run the preview server")
	flag.BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	flag.BoolVar(&opts.noPreview, "no-preview", false, "do not open artifacts in the image viewer")
	flag.BoolVar(&opts.gops, "gops", false, "start the gops diagnostics agent")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "mandelbrot:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	defer fractal.CloseAccelerator()

	if opts.gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("gops agent: %w", err)
		}
		defer agent.Close()
	}

	file := config.Defaults()
	if opts.configPath != "" {
		var err error
		if file, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if opts.outDir != "" {
		file.OutputDir = opts.outDir
	}
	cfg, err := file.Fractal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(file.OutputDir, 0o755); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{cfg: cfg, dir: file.OutputDir, json: opts.jsonOut, preview: !opts.noPreview}

	switch {
	case opts.serve:
		return web.New(cfg, file.OutputDir).Run(ctx, file.Addr)
	case opts.interactive:
		return fractal.RunInteractive(file.InteractiveWidth, file.InteractiveHeight)
	case opts.strategy != "":
		s, err := fractal.ParseStrategy(opts.strategy)
		if err != nil {
			return err
		}
		return app.generate(ctx, os.Stdout, s)
	case opts.compare != "":
		a, b, err := parsePair(opts.compare)
		if err != nil {
			return err
		}
		return app.compare(ctx, os.Stdout, a, b)
	default:
		return menu.Run(menu.Actions{
			Compare: func(a, b fractal.Strategy) (string, error) {
				var buf bytes.Buffer
				err := app.compare(ctx, &buf, a, b)
				return buf.String(), err
			},
			Interactive: func() error {
				return fractal.RunInteractive(file.InteractiveWidth, file.InteractiveHeight)
			},
		})
	}
}

// parsePair parses "a,b" into two strategies.
func parsePair(s string) (fractal.Strategy, fractal.Strategy, error) {
	first, second, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("-compare wants two strategies separated by a comma, got %q", s)
	}
	a, err := fractal.ParseStrategy(first)
	if err != nil {
		return 0, 0, err
	}
	b, err := fractal.ParseStrategy(second)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

type cli struct {
	cfg     fractal.Config
	dir     string
	json    bool
	preview bool
}

func (c *cli) generate(ctx context.Context, w io.Writer, s fractal.Strategy) error {
	p := report.NewPrinter(w)
	if !c.json {
		p.Header(s, c.cfg)
	}
	res, err := fractal.Generate(ctx, s, c.cfg, c.dir)
	if err != nil {
		return err
	}
	if c.json {
		return report.WriteJSON(w, report.NewResultJSON(res))
	}
	p.Result(res)
	c.open(ctx, res.Artifact)
	return nil
}

func (c *cli) compare(ctx context.Context, w io.Writer, a, b fractal.Strategy) error {
	p := report.NewPrinter(w)
	if a == b {
		p.SameStrategy()
		return nil
	}

	if c.json {
		cmp, err := fractal.Compare(ctx, a, b, c.cfg, c.dir)
		if err != nil {
			return err
		}
		return report.WriteJSON(w, report.NewComparisonJSON(cmp))
	}

	var results [2]fractal.Result
	for i, s := range [2]fractal.Strategy{a, b} {
		p.Header(s, c.cfg)
		res, err := fractal.Generate(ctx, s, c.cfg, c.dir)
		if err != nil {
			return err
		}
		p.Result(res)
		results[i] = res
	}
	p.Comparison(fractal.NewComparison(results[0], results[1]))
	c.open(ctx, results[0].Artifact, results[1].Artifact)
	return nil
}

// open shows the artifacts in the system image viewer. Failures are
// logged, never fatal.
func (c *cli) open(ctx context.Context, paths ...string) {
	if !c.preview {
		return
	}
	var g errgroup.Group
	for _, path := range paths {
		g.Go(func() error {
			return fractal.Preview(ctx, filepath.Clean(path))
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fractal.Logger().Warn("preview failed", "err", err)
	}
}
