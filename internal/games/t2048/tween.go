package t2048

import (
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// DefaultTweenDuration is the animation length used when none is configured.
const DefaultTweenDuration = 250 * time.Millisecond

// Tween is a time-bounded linear interpolation between two points.
// Timing is wall-clock based, so animation speed does not depend on the tick rate.
type Tween struct {
	start     core.Vec2
	end       core.Vec2
	startedAt time.Time
	duration  time.Duration
	finished  bool
}

// NewTween starts a tween at startedAt.
func NewTween(start, end core.Vec2, startedAt time.Time, duration time.Duration) *Tween {
	if duration <= 0 {
		duration = DefaultTweenDuration
	}
	return &Tween{
		start:     start,
		end:       end,
		startedAt: startedAt,
		duration:  duration,
	}
}

// Start returns the starting point.
func (tw *Tween) Start() core.Vec2 {
	return tw.start
}

// End returns the target point.
func (tw *Tween) End() core.Vec2 {
	return tw.end
}

// Finished reports whether the tween has reached its end.
func (tw *Tween) Finished() bool {
	return tw.finished
}

// Progress returns elapsed/duration clamped to [0, 1].
func (tw *Tween) Progress(now time.Time) float64 {
	if tw.finished {
		return 1
	}
	elapsed := now.Sub(tw.startedAt)
	return core.ClampF(float64(elapsed)/float64(tw.duration), 0, 1)
}

// Advance returns the interpolated position at now. The call that first
// reaches the end returns completed == true; every later call returns the end
// point verbatim and completed == false.
func (tw *Tween) Advance(now time.Time) (pos core.Vec2, completed bool) {
	if tw.finished {
		return tw.end, false
	}

	progress := tw.Progress(now)
	if progress >= 1 {
		tw.finished = true
		return tw.end, true
	}

	return core.Lerp(tw.start, tw.end, progress), false
}
