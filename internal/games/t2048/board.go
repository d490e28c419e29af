package t2048

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every direction in legality-index order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

var directionNames = [4]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return directionNames[d]
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection converts a direction name to a Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("t2048: unknown direction %q", s)
}

func (d Direction) offset() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

// Board owns the grid of cells and the arena of tiles. Cells refer to tiles by
// handle; a handle stays valid until its tile is dropped and is never reused.
// The arena only grows, by one slot per spawn. A reset builds a new Board, so
// its length is bounded by a single round.
type Board struct {
	width    int
	height   int
	cells    []Cell  // row-major
	tiles    []*Tile // arena indexed by TileID, nil once dropped
	clock    Clock
	duration time.Duration
	pending  []Event
}

// NewBoard creates an empty width x height board laid out over a square canvas.
func NewBoard(width, height int, canvas float64, clock Clock, duration time.Duration) *Board {
	b := &Board{
		width:    width,
		height:   height,
		cells:    make([]Cell, 0, width*height),
		clock:    clock,
		duration: duration,
	}

	cellSize := core.V(canvas/float64(width), canvas/float64(height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.cells = append(b.cells, newCell(x, y, cellSize))
		}
	}
	return b
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Cell returns the cell at (x, y), or nil when out of bounds.
func (b *Board) Cell(x, y int) *Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil
	}
	return &b.cells[y*b.width+x]
}

// Tile resolves a handle; nil for NoTile or a dropped tile.
func (b *Board) Tile(id TileID) *Tile {
	if id < 0 || int(id) >= len(b.tiles) {
		return nil
	}
	return b.tiles[id]
}

// TileAt returns the tile held by the cell at (x, y).
func (b *Board) TileAt(x, y int) (*Tile, bool) {
	c := b.Cell(x, y)
	if c == nil || c.Empty() {
		return nil, false
	}
	return b.tiles[c.tile], true
}

func (b *Board) mustTile(c *Cell) *Tile {
	if c.Empty() {
		panic(fmt.Sprintf("t2048: cell (%d,%d) holds no tile", c.at.X, c.at.Y))
	}
	return b.tiles[c.tile]
}

// Tiles returns live tiles in creation order, absorbed ones included.
func (b *Board) Tiles() []*Tile {
	out := make([]*Tile, 0, len(b.cells))
	for _, t := range b.tiles {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Values returns the grid of tile values, 0 for empty cells.
func (b *Board) Values() [][]int {
	grid := make([][]int, b.height)
	for y := range grid {
		grid[y] = make([]int, b.width)
		for x := range grid[y] {
			if t, ok := b.TileAt(x, y); ok {
				grid[y][x] = t.value
			}
		}
	}
	return grid
}

// FreeCells lists empty cells in row-major order.
func (b *Board) FreeCells() []Point {
	var free []Point
	for i := range b.cells {
		if b.cells[i].Empty() {
			free = append(free, b.cells[i].at)
		}
	}
	return free
}

// Full reports whether every cell holds a tile.
func (b *Board) Full() bool {
	for i := range b.cells {
		if b.cells[i].Empty() {
			return false
		}
	}
	return true
}

// MaxValue returns the highest value held by a cell.
func (b *Board) MaxValue() int {
	maxVal := 0
	for i := range b.cells {
		if c := &b.cells[i]; !c.Empty() && b.tiles[c.tile].value > maxVal {
			maxVal = b.tiles[c.tile].value
		}
	}
	return maxVal
}

// Animating reports whether any live tile still has a tween attached.
func (b *Board) Animating() bool {
	for _, t := range b.tiles {
		if t != nil && t.tween != nil {
			return true
		}
	}
	return false
}

// SpawnAt places a new tile at its resting slot. It is a no-op on an occupied
// or out-of-bounds cell.
func (b *Board) SpawnAt(x, y, value int) (*Tile, bool) {
	c := b.Cell(x, y)
	if c == nil || !c.Empty() {
		return nil, false
	}

	pos, size := c.Slot()
	t := newTile(TileID(len(b.tiles)), pos, size, value)
	b.tiles = append(b.tiles, t)
	c.put(t.id)
	return t, true
}

func (b *Board) emit(e Event) {
	b.pending = append(b.pending, e)
}

func (b *Board) animate(t *Tile, end core.Vec2) {
	t.animateTo(end, b.clock.Now(), b.duration)
}

// merge folds src into dst when both hold equal tiles. dst keeps its handle
// and doubles; the absorbed tile tweens toward dst and is dropped when done.
// Returns the new value.
func (b *Board) merge(dst, src *Cell) (int, bool) {
	if dst.Empty() || src.Empty() {
		return 0, false
	}

	survivor := b.mustTile(dst)
	absorbed := b.mustTile(src)
	if !survivor.Equal(absorbed) {
		return 0, false
	}

	value := survivor.Double()
	src.take()

	// Chase the survivor's destination if it is itself sliding this move.
	end := survivor.pos
	if survivor.tween != nil {
		end = survivor.tween.End()
	}
	absorbed.absorbed = true
	b.animate(absorbed, end)

	b.emit(Event{
		Kind:  EventMerged,
		Tile:  survivor.id,
		Other: absorbed.id,
		At:    dst.at,
		Value: value,
	})
	return value, true
}

// swap moves the tile of src into an empty dst.
func (b *Board) swap(dst, src *Cell) bool {
	if !dst.Empty() || src.Empty() {
		return false
	}

	id := src.take()
	dst.put(id)

	slot, _ := dst.Slot()
	b.animate(b.tiles[id], slot)

	b.emit(Event{Kind: EventMoved, Tile: id, Other: NoTile, From: src.at, At: dst.at})
	return true
}

// lines returns the cells of every row or column, ordered so that index 0 is
// the edge tiles move toward.
func (b *Board) lines(dir Direction) [][]*Cell {
	var out [][]*Cell

	switch dir {
	case DirLeft, DirRight:
		for y := 0; y < b.height; y++ {
			line := make([]*Cell, b.width)
			for x := 0; x < b.width; x++ {
				line[x] = b.Cell(x, y)
			}
			out = append(out, line)
		}
	default:
		for x := 0; x < b.width; x++ {
			line := make([]*Cell, b.height)
			for y := 0; y < b.height; y++ {
				line[y] = b.Cell(x, y)
			}
			out = append(out, line)
		}
	}

	if dir == DirRight || dir == DirDown {
		for _, line := range out {
			reverseCells(line)
		}
	}
	return out
}

func reverseCells(line []*Cell) {
	for i, j := 0, len(line)-1; i < j; i, j = i+1, j-1 {
		line[i], line[j] = line[j], line[i]
	}
}

// compactLine slides and merges one line toward index 0. A tile produced by a
// merge never merges again in the same move.
func (b *Board) compactLine(line []*Cell) {
	i := 0
	for i < len(line) {
		j := nextOccupied(line, i+1)
		if j < 0 {
			return
		}
		if line[i].Empty() {
			b.swap(line[i], line[j])
			continue
		}
		b.merge(line[i], line[j])
		i++
	}
}

func nextOccupied(line []*Cell, from int) int {
	for k := from; k < len(line); k++ {
		if !line[k].Empty() {
			return k
		}
	}
	return -1
}

// Compact applies a move in dir to every line and returns the swap and merge
// events in the order they happened.
func (b *Board) Compact(dir Direction) []Event {
	for _, line := range b.lines(dir) {
		b.compactLine(line)
	}
	events := b.pending
	b.pending = nil
	return events
}

// Legal reports, per direction, whether some tile has an in-bounds neighbor
// that is empty or holds an equal value.
func (b *Board) Legal() [4]bool {
	var legal [4]bool
	for i := range b.cells {
		c := &b.cells[i]
		if c.Empty() {
			continue
		}
		value := b.tiles[c.tile].value
		for _, d := range Directions {
			if legal[d] {
				continue
			}
			dx, dy := d.offset()
			n := b.Cell(c.at.X+dx, c.at.Y+dy)
			if n == nil {
				continue
			}
			if n.Empty() || b.tiles[n.tile].value == value {
				legal[d] = true
			}
		}
	}
	return legal
}

// update advances every live tile and drops absorbed tiles whose tween just
// completed.
func (b *Board) update() []Event {
	now := b.clock.Now()
	var events []Event
	for id, t := range b.tiles {
		if t == nil {
			continue
		}
		if t.update(now) && t.absorbed {
			b.tiles[id] = nil
			events = append(events, Event{Kind: EventTileRemoved, Tile: t.id, Other: NoTile, Value: t.value})
		}
	}
	return events
}
