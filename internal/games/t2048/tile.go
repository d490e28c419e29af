package t2048

import (
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// TileID indexes a tile in the board's arena.
type TileID int

// NoTile marks an empty cell.
const NoTile TileID = -1

// SentinelColor is used for values outside the palette.
const SentinelColor core.Color = "#000000"

var tileColors = map[int]core.Color{
	2:    "#eee4da",
	4:    "#eee0c6",
	8:    "#f9b377",
	16:   "#ff9b60",
	32:   "#cb6a49",
	64:   "#ec6233",
	128:  "#e8c463",
	256:  "#e0ba55",
	512:  "#f3c54b",
	1024: "#f2c138",
	2048: "#f3bd29",
	4096: "#5eda92",
	8192: "#39bc78",
}

// TileColor returns the display color for a tile value.
func TileColor(value int) core.Color {
	if c, ok := tileColors[value]; ok {
		return c
	}
	return SentinelColor
}

// Tile is a game piece. Its draw position lags its cell while a tween is attached.
type Tile struct {
	id       TileID
	pos      core.Vec2
	size     core.Vec2
	value    int
	color    core.Color
	tween    *Tween
	absorbed bool // merged away; dropped from the arena once its tween completes
}

func newTile(id TileID, pos, size core.Vec2, value int) *Tile {
	return &Tile{
		id:    id,
		pos:   pos,
		size:  size,
		value: value,
		color: TileColor(value),
	}
}

// ID returns the arena index of the tile.
func (t *Tile) ID() TileID { return t.id }

// Position returns the current draw position (top-left).
func (t *Tile) Position() core.Vec2 { return t.pos }

// Size returns the draw size.
func (t *Tile) Size() core.Vec2 { return t.size }

// Value returns the tile's weight.
func (t *Tile) Value() int { return t.value }

// Color returns the palette color for the current value.
func (t *Tile) Color() core.Color { return t.color }

// Tween returns the attached tween, or nil.
func (t *Tile) Tween() *Tween { return t.tween }

// Animating reports whether a tween is attached, finished or not.
func (t *Tile) Animating() bool { return t.tween != nil }

// Absorbed reports whether the tile was merged into another one.
func (t *Tile) Absorbed() bool { return t.absorbed }

// Equal reports whether both tiles carry the same value.
func (t *Tile) Equal(other *Tile) bool {
	return t.value == other.value
}

// Double doubles the value, refreshes the color and returns the new value.
func (t *Tile) Double() int {
	t.value *= 2
	t.color = TileColor(t.value)
	return t.value
}

// animateTo replaces any tween with one starting at the current draw position.
func (t *Tile) animateTo(end core.Vec2, now time.Time, d time.Duration) {
	t.tween = NewTween(t.pos, end, now, d)
}

// update advances the tile by one tick. A tween that finished on an earlier
// tick is detached; an active one moves the draw position. Returns true on the
// tick the tween completes.
func (t *Tile) update(now time.Time) bool {
	if t.tween == nil {
		return false
	}
	if t.tween.Finished() {
		t.tween = nil
		return false
	}

	pos, completed := t.tween.Advance(now)
	t.pos = pos
	return completed
}
