package persistence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"numbertrail/server/models"
)

// LevelPack is the YAML layout of a level pack file.
//
//	levels:
//	  - name: first
//	    grid_size: 5
//	    start: {row: 2, col: 2}
//	    targets:
//	      - position: {row: 1, col: 3}
//	        required_number: 6
type LevelPack struct {
	Levels []models.LevelConfig `yaml:"levels"`
}

// LoadLevelPack reads a YAML level pack and validates every level in it.
func LoadLevelPack(path string) ([]models.LevelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLevelPack(data)
}

// ParseLevelPack decodes and validates a YAML level pack.
func ParseLevelPack(data []byte) ([]models.LevelConfig, error) {
	var pack LevelPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse level pack: %w", err)
	}

	seen := make(map[string]bool, len(pack.Levels))
	for i, cfg := range pack.Levels {
		if cfg.Name == "" {
			return nil, fmt.Errorf("level #%d: %w: missing name", i+1, models.ErrInvalidLevel)
		}
		if seen[cfg.Name] {
			return nil, fmt.Errorf("level %q: %w: duplicate name", cfg.Name, models.ErrInvalidLevel)
		}
		seen[cfg.Name] = true
		if _, err := cfg.Build(); err != nil {
			return nil, fmt.Errorf("level %q: %w", cfg.Name, err)
		}
	}
	return pack.Levels, nil
}
