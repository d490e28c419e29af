package t2048

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Package-level board configuration shared by every preset.
var boardConfig = config.DefaultBoardConfig()

// SetBoardConfig replaces the base configuration presets are applied to.
// The config must stay valid under every preset, so a base that only fits
// the classic board (too many initial tiles for 3x3, say) is rejected.
func SetBoardConfig(cfg config.BoardConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("t2048: %w", err)
	}
	for _, p := range Presets {
		if err := p.Apply(cfg).Validate(); err != nil {
			return fmt.Errorf("t2048: preset %s: %w", p.ID, err)
		}
	}
	boardConfig = cfg
	return nil
}

// BaseConfig returns the configuration presets are applied to.
func BaseConfig() config.BoardConfig {
	return boardConfig
}

// Game adapts a Simulation to the registry.Game interface used by the
// terminal front end.
type Game struct {
	preset Preset
	clock  Clock
	sim    *Simulation

	screenW  int
	screenH  int
	paused   bool
	tooSmall bool
}

// NewGame creates a game for the given preset.
func NewGame(p Preset) *Game {
	return &Game{preset: p, clock: systemClock{}}
}

func init() {
	for _, p := range Presets {
		registry.Register(p.ID, func() registry.Game {
			return NewGame(p)
		})
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.preset.ID }

// Title returns the display name.
func (g *Game) Title() string { return g.preset.Name }

// Simulation exposes the underlying board simulation.
func (g *Game) Simulation() *Simulation { return g.sim }

// Reset starts a new round.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false

	opts := []Option{
		WithRand(rand.New(rand.NewSource(cfg.Seed))),
		WithClock(g.clock),
	}
	sim, err := New(g.preset.Apply(boardConfig), opts...)
	if err != nil {
		// SetBoardConfig checked every preset against the base config.
		panic(err)
	}
	g.sim = sim

	g.checkScreenSize()
}

// Resize updates the screen dimensions without restarting the round.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

func (g *Game) checkScreenSize() {
	l := g.layout()
	g.tooSmall = g.screenW < l.w+2 || g.screenH < l.y+l.h+2
}

// Step applies the frame's input and runs one simulation tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	halted := g.sim.Phase().Halted()
	if in.Has(core.ActionPause) && !halted {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if halted {
		if in.Has(core.ActionConfirm) || in.Has(core.ActionRestart) {
			g.sim.Acknowledge()
		}
	} else if dir, ok := g.direction(in); ok {
		g.sim.Move(dir)
	}

	g.sim.Tick()
	return core.StepResult{State: g.State()}
}

// direction picks the move requested by the frame. Keys take precedence over
// a swipe.
func (g *Game) direction(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}

	if in.Swipe == nil {
		return 0, false
	}
	// Drags must start on the board.
	l := g.layout()
	if !l.bounds().Contains(in.Swipe.FromX, in.Swipe.FromY) {
		return 0, false
	}
	from := l.toCanvas(in.Swipe.FromX, in.Swipe.FromY)
	to := l.toCanvas(in.Swipe.ToX, in.Swipe.ToY)
	return DetectSwipe(from, to, g.sim.MinSwipeDistance())
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	phase := g.sim.Phase()
	return core.GameState{
		Score:    g.sim.Score(),
		MaxTile:  g.sim.MaxTile(),
		Won:      phase == PhaseWon,
		GameOver: phase.Halted(),
		Paused:   g.paused || g.tooSmall,
	}
}
