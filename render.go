// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"github.com/gogpu/fractal/internal/parallel"
)

// sampler holds the per-run constants of the pixel -> plane mapping.
// Both CPU strategies shade through the same sampler, so a pixel gets the
// same float64 coordinate, and therefore the same colour, whichever
// strategy or worker computes it.
type sampler struct {
	x0, y0  float64
	dx, dy  float64
	maxIter int
	palette Palette
}

func newSampler(cfg Config) sampler {
	return sampler{
		x0:      cfg.Viewport.X0,
		y0:      cfg.Viewport.Y0,
		dx:      cfg.PixelWidth(),
		dy:      cfg.PixelHeight(),
		maxIter: cfg.MaxIterations,
		palette: cfg.Palette,
	}
}

// shadeRows computes rows [y0, y1) of buf, columns ascending.
func (s sampler) shadeRows(buf *PixelBuffer, y0, y1 int) {
	for py := y0; py < y1; py++ {
		cImag := s.y0 + float64(py)*s.dy
		for px := 0; px < buf.width; px++ {
			cReal := s.x0 + float64(px)*s.dx
			buf.set(px, py, ColorFor(Iterate(cReal, cImag, s.maxIter), s.palette))
		}
	}
}

// RenderSequential renders cfg on the calling goroutine, rows top to bottom,
// columns left to right. It is the reference the other strategies are
// checked against.
func RenderSequential(cfg Config) (*PixelBuffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buf := NewPixelBuffer(cfg.Grid.Width, cfg.Grid.Height)
	newSampler(cfg).shadeRows(buf, 0, cfg.Grid.Height)
	return buf, nil
}

// Band describes one completed unit of parallel work.
type Band struct {
	// Index is the band number, counted from the top.
	Index int

	// MinY is the first row of the band.
	MinY int

	// Rows is the number of rows in the band.
	Rows int

	// Total is the number of bands in the render.
	Total int
}

// RenderParallel renders cfg on a worker pool and returns once every band
// is done. The output is byte-identical to RenderSequential.
func RenderParallel(cfg Config) (*PixelBuffer, error) {
	return RenderParallelWithProgress(cfg, nil)
}

// RenderParallelWithProgress is RenderParallel with a hook called after each
// band completes. The hook runs on worker goroutines, in completion order,
// and must be safe for concurrent use.
func RenderParallelWithProgress(cfg Config, onBand func(Band)) (*PixelBuffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid := parallel.NewRowGrid(cfg.Grid.Width, cfg.Grid.Height, cfg.BandHeight)
	rast := parallel.NewRasterizer(grid, cfg.Workers)
	defer rast.Close()

	Logger().Debug("parallel render partitioned",
		"bands", grid.TileCount(),
		"band_height", max(cfg.BandHeight, 1),
		"workers", rast.Workers())

	if onBand != nil {
		total := grid.TileCount()
		rast.OnTile(func(t parallel.Tile) {
			onBand(Band{Index: t.Index, MinY: t.MinY, Rows: t.Height, Total: total})
		})
	}

	buf := NewPixelBuffer(cfg.Grid.Width, cfg.Grid.Height)
	s := newSampler(cfg)
	rast.FillTiles(func(t parallel.Tile) {
		s.shadeRows(buf, t.MinY, t.MinY+t.Height)
	})
	return buf, nil
}
