package t2048

import "github.com/vovakirdan/tui-2048/internal/config"

// Preset is a named board variant. Zero fields keep the loaded configuration.
type Preset struct {
	ID       string
	Name     string
	Width    int
	Height   int
	WinValue int
}

// Presets are registered as separate games, in menu order.
var Presets = []Preset{
	{ID: "2048", Name: "2048"},
	{ID: "2048_mini", Name: "2048 Mini (3x3)", Width: 3, Height: 3, WinValue: 256},
	{ID: "2048_large", Name: "2048 Large (5x5)", Width: 5, Height: 5, WinValue: 4096},
}

// PresetByID looks up a preset.
func PresetByID(id string) (Preset, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// Apply overlays the preset on cfg.
func (p Preset) Apply(cfg config.BoardConfig) config.BoardConfig {
	if p.Width > 0 {
		cfg.Board.Width = p.Width
	}
	if p.Height > 0 {
		cfg.Board.Height = p.Height
	}
	if p.WinValue > 0 {
		cfg.Rules.WinValue = p.WinValue
	}
	return cfg
}
