// Package config provides YAML-based board configuration loading for the
// puzzle and its adapters.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned (wrapped) when a configuration fails validation.
var ErrInvalid = errors.New("invalid board config")

// BoardConfig contains all tunables of the board simulation.
type BoardConfig struct {
	Board     BoardGrid      `yaml:"board"`
	Rules     BoardRules     `yaml:"rules"`
	Animation BoardAnimation `yaml:"animation"`
	Input     BoardInput     `yaml:"input"`
}

// BoardGrid defines the grid dimensions and the pixel space tiles live in.
type BoardGrid struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	CanvasSize float64 `yaml:"canvas_size"`
}

// BoardRules defines win condition and spawn behaviour.
type BoardRules struct {
	WinValue     int     `yaml:"win_value"`
	Spawn4Prob   float64 `yaml:"spawn4_prob"`
	InitialTiles int     `yaml:"initial_tiles"`
}

// BoardAnimation defines tween timing.
type BoardAnimation struct {
	DurationMS int `yaml:"duration_ms"`
}

// Duration returns the tween duration.
func (a BoardAnimation) Duration() time.Duration {
	return time.Duration(a.DurationMS) * time.Millisecond
}

// BoardInput defines gesture thresholds.
type BoardInput struct {
	MinSwipeDistance float64 `yaml:"min_swipe_distance"`
}

// Cells returns the number of grid slots.
func (c BoardConfig) Cells() int {
	return c.Board.Width * c.Board.Height
}

// Validate reports the first problem found in the configuration.
func (c BoardConfig) Validate() error {
	switch {
	case c.Board.Width < 2 || c.Board.Height < 2:
		return fmt.Errorf("%w: board must be at least 2x2, got %dx%d", ErrInvalid, c.Board.Width, c.Board.Height)
	case c.Board.CanvasSize <= 0:
		return fmt.Errorf("%w: canvas_size must be positive, got %v", ErrInvalid, c.Board.CanvasSize)
	case c.Rules.WinValue < 4 || c.Rules.WinValue&(c.Rules.WinValue-1) != 0:
		return fmt.Errorf("%w: win_value must be a power of two >= 4, got %d", ErrInvalid, c.Rules.WinValue)
	case c.Rules.Spawn4Prob < 0 || c.Rules.Spawn4Prob > 1:
		return fmt.Errorf("%w: spawn4_prob must be within [0, 1], got %v", ErrInvalid, c.Rules.Spawn4Prob)
	case c.Rules.InitialTiles < 1 || c.Rules.InitialTiles > c.Cells():
		return fmt.Errorf("%w: initial_tiles must be within [1, %d], got %d", ErrInvalid, c.Cells(), c.Rules.InitialTiles)
	case c.Animation.DurationMS <= 0:
		return fmt.Errorf("%w: duration_ms must be positive, got %d", ErrInvalid, c.Animation.DurationMS)
	case c.Input.MinSwipeDistance < 0:
		return fmt.Errorf("%w: min_swipe_distance must not be negative, got %v", ErrInvalid, c.Input.MinSwipeDistance)
	}
	return nil
}
