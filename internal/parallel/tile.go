// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package parallel provides the work-partitioning infrastructure used by the
// parallel fractal strategy.
//
// The pixel grid is divided into full-width row bands that are rendered
// independently. A band owns a disjoint set of rows of the destination
// buffer, so workers write straight into that buffer without any locking:
//
//   - TileGrid partitions a canvas into bands of a configurable height
//   - WorkerPool runs one work item per band and blocks until all finish
//   - Rasterizer ties both together behind a single FillTiles call
//
// Thread safety: TileGrid is immutable after construction. WorkerPool and
// Rasterizer are safe for concurrent use.
package parallel

// Tile is a full-width band of rows processed as one unit of work.
//
// The last band may be shorter than the nominal band height when the canvas
// height is not evenly divisible.
type Tile struct {
	// Index is the position of the band, top to bottom.
	Index int

	// MinY is the canvas row of the band's first line.
	MinY int

	// Width is the canvas width in pixels.
	Width int

	// Height is the number of rows in the band.
	Height int
}
