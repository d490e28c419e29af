package t2048

import (
	"math"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// DetectSwipe turns a pointer drag into a direction. Drags shorter than
// minDistance on both axes are ignored; the dominant axis wins and ties count
// as vertical.
func DetectSwipe(from, to core.Vec2, minDistance float64) (Direction, bool) {
	d := to.Sub(from)
	ax, ay := math.Abs(d.X), math.Abs(d.Y)

	if ax < minDistance && ay < minDistance {
		return 0, false
	}

	if ax > ay {
		if d.X > 0 {
			return DirRight, true
		}
		return DirLeft, true
	}
	if d.Y > 0 {
		return DirDown, true
	}
	return DirUp, true
}
