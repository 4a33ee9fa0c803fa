// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads fractal run settings from YAML, JSON or TOML files.
//
// Defaults and bounds are declared in struct tags and applied by go-zero's
// conf loader, so a file only needs the keys it changes:
//
//	width: 1920
//	height: 1080
//	maxIterations: 500
//	palette: ["#000764", "#206bcb", "#edffff", "#ffaa00"]
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"

	"github.com/gogpu/fractal"
)

// File is the on-disk run configuration.
type File struct {
	Width         int `json:"width,default=1024,range=[1:65536]"`
	Height        int `json:"height,default=1024,range=[1:65536]"`
	MaxIterations int `json:"maxIterations,default=1000,range=[0:1000000]"`

	X0 float64 `json:"x0,default=-2.0"`
	X1 float64 `json:"x1,default=0.5"`
	Y0 float64 `json:"y0,default=-1.25"`
	Y1 float64 `json:"y1,default=1.25"`

	// Palette entries are hex colours, "#rrggbb" or "0xrrggbb".
	// Empty selects the 64-entry default palette.
	Palette []string `json:"palette,optional"`

	Workers    int `json:"workers,default=0,range=[0:4096]"`
	BandHeight int `json:"bandHeight,default=1,range=[1:65536]"`

	// OutputDir receives the generated artifacts.
	OutputDir string `json:"outputDir,default=."`

	InteractiveWidth  int `json:"interactiveWidth,default=1280,range=[1:16384]"`
	InteractiveHeight int `json:"interactiveHeight,default=720,range=[1:16384]"`

	// Addr is the listen address of the preview server.
	Addr string `json:"addr,default=localhost:8080"`
}

// Load reads path and fills unset keys from the tag defaults. The format is
// chosen from the extension (.yaml, .yml, .json or .toml).
func Load(path string) (File, error) {
	var f File
	if err := conf.Load(path, &f); err != nil {
		return File{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return f, nil
}

// Defaults returns the configuration used when no file is given.
func Defaults() File {
	var f File
	// Cannot fail: every field has a default or is optional.
	_ = conf.LoadFromJsonBytes([]byte("{}"), &f)
	return f
}

// Fractal converts the file into a validated fractal.Config.
func (f File) Fractal() (fractal.Config, error) {
	opts := []fractal.Option{
		fractal.WithGrid(f.Width, f.Height),
		fractal.WithViewport(f.X0, f.X1, f.Y0, f.Y1),
		fractal.WithMaxIterations(f.MaxIterations),
		fractal.WithWorkers(f.Workers),
		fractal.WithBandHeight(f.BandHeight),
	}
	if len(f.Palette) > 0 {
		p, err := ParsePalette(f.Palette)
		if err != nil {
			return fractal.Config{}, err
		}
		opts = append(opts, fractal.WithPalette(p))
	}

	cfg := fractal.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return fractal.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ParsePalette parses hex colour strings.
func ParsePalette(entries []string) (fractal.Palette, error) {
	p := make(fractal.Palette, 0, len(entries))
	for i, e := range entries {
		s := strings.TrimSpace(e)
		s = strings.TrimPrefix(s, "#")
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil || len(s) == 0 || len(s) > 6 {
			return nil, fmt.Errorf("%w: entry %d %q is not a hex colour", fractal.ErrInvalidPalette, i, e)
		}
		p = append(p, fractal.RGB(v))
	}
	return p, nil
}
