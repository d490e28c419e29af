package t2048

import (
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// A tile covers 70% of its cell, centered.
const (
	tileScale  = 0.7
	tileMargin = (1 - tileScale) / 2
)

// Point is a grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is a fixed grid slot holding at most one tile handle.
type Cell struct {
	at     Point
	origin core.Vec2 // top-left corner in pixels
	size   core.Vec2
	tile   TileID
}

func newCell(x, y int, size core.Vec2) Cell {
	return Cell{
		at:     Point{X: x, Y: y},
		origin: size.Mul(core.V(float64(x), float64(y))),
		size:   size,
		tile:   NoTile,
	}
}

// At returns the grid coordinate.
func (c *Cell) At() Point { return c.at }

// Empty reports whether the cell holds no tile.
func (c *Cell) Empty() bool { return c.tile == NoTile }

// TileID returns the held tile handle, or NoTile.
func (c *Cell) TileID() TileID { return c.tile }

// Size returns the cell's size in pixels.
func (c *Cell) Size() core.Vec2 { return c.size }

// Slot returns where a resting tile of this cell is drawn, and its size.
func (c *Cell) Slot() (pos, size core.Vec2) {
	return c.origin.Add(c.size.Scale(tileMargin)), c.size.Scale(tileScale)
}

// take removes and returns the held handle.
func (c *Cell) take() TileID {
	id := c.tile
	c.tile = NoTile
	return id
}

func (c *Cell) put(id TileID) {
	if !c.Empty() {
		panic(fmt.Sprintf("t2048: cell (%d,%d) already holds tile %d", c.at.X, c.at.Y, c.tile))
	}
	c.tile = id
}
