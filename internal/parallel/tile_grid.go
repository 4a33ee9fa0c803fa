// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

// TileGrid partitions a canvas into row bands for parallel rendering.
//
// Bands are stored top to bottom and together cover every pixel of the
// canvas exactly once.
type TileGrid struct {
	tiles []Tile
}

// NewRowGrid creates a grid of full-width row bands, each rows pixels high.
// If rows <= 0, one row per band is used. Non-positive canvas dimensions
// produce an empty grid.
func NewRowGrid(width, height, rows int) *TileGrid {
	if width <= 0 || height <= 0 {
		return &TileGrid{}
	}
	if rows <= 0 {
		rows = 1
	}

	n := (height + rows - 1) / rows
	g := &TileGrid{tiles: make([]Tile, n)}
	for i := range n {
		minY := i * rows
		g.tiles[i] = Tile{
			Index:  i,
			MinY:   minY,
			Width:  width,
			Height: min(rows, height-minY),
		}
	}
	return g
}

// TileCount returns the total number of bands in the grid.
func (g *TileGrid) TileCount() int {
	return len(g.tiles)
}

// AllTiles returns all bands in the grid.
// The returned slice should not be modified.
func (g *TileGrid) AllTiles() []Tile {
	return g.tiles
}
