package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BoardFile is the config file name looked up in the search directories.
const BoardFile = "board.yaml"

// LoadBoard loads the board configuration.
// Search order: customPath -> ~/.t2048/configs/board.yaml -> ./configs/board.yaml -> embedded default.
// Files only need to set the keys they change; the rest keep their defaults.
func LoadBoard(customPath string) (BoardConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return BoardConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parseBoard(data)
		if err != nil {
			return BoardConfig{}, fmt.Errorf("config: failed to load %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{userConfigPath(BoardFile), filepath.Join("configs", BoardFile)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parseBoard(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parseBoard(defaultBoardYAML)
	if err != nil {
		return DefaultBoardConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseBoard decodes YAML over the defaults and validates the result.
func parseBoard(data []byte) (BoardConfig, error) {
	cfg := DefaultBoardConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BoardConfig{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BoardConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "configs", filename)
}
