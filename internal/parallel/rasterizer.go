// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

// Rasterizer runs a per-tile function over a TileGrid on a WorkerPool.
//
// The rasterizer does not own pixel memory. The tile function is expected to
// write only the pixels inside the tile it is given; since tiles never
// overlap, the shared destination needs no synchronization.
type Rasterizer struct {
	grid   *TileGrid
	pool   *WorkerPool
	onTile func(Tile)
}

// NewRasterizer creates a rasterizer over grid using a new pool with the
// given number of workers (DefaultWorkers if workers <= 0).
// Returns nil if grid is nil or empty.
func NewRasterizer(grid *TileGrid, workers int) *Rasterizer {
	if grid == nil || grid.TileCount() == 0 {
		return nil
	}
	return &Rasterizer{
		grid: grid,
		pool: NewWorkerPool(workers),
	}
}

// OnTile registers a hook called after each tile has been rendered.
// The hook runs on the worker goroutine and must be safe for concurrent use.
func (r *Rasterizer) OnTile(fn func(Tile)) {
	r.onTile = fn
}

// Workers returns the size of the worker pool.
func (r *Rasterizer) Workers() int {
	return r.pool.Workers()
}

// FillTiles executes fn on every tile of the grid in parallel and returns
// once all tiles are done.
func (r *Rasterizer) FillTiles(fn func(t Tile)) {
	if fn == nil {
		return
	}

	tiles := r.grid.AllTiles()
	work := make([]func(), len(tiles))
	for i, tile := range tiles {
		work[i] = func() {
			fn(tile)
			if r.onTile != nil {
				r.onTile(tile)
			}
		}
	}

	r.pool.ExecuteAll(work)
}

// Close releases the worker pool.
// The rasterizer should not be used after Close is called.
func (r *Rasterizer) Close() {
	r.pool.Close()
}
