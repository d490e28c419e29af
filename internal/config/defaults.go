package config

import (
	_ "embed"
)

//go:embed defaults/board.yaml
var defaultBoardYAML []byte

// DefaultBoardConfig returns the classic 4x4 configuration.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Board: BoardGrid{
			Width:      4,
			Height:     4,
			CanvasSize: 500,
		},
		Rules: BoardRules{
			WinValue:     2048,
			Spawn4Prob:   0.10,
			InitialTiles: 2,
		},
		Animation: BoardAnimation{
			DurationMS: 250,
		},
		Input: BoardInput{
			MinSwipeDistance: 100,
		},
	}
}

// DefaultYAML returns the embedded default board YAML.
func DefaultYAML() []byte {
	return defaultBoardYAML
}
