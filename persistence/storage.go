package persistence

import (
	"context"
	"errors"

	"numbertrail/server/models"
)

// ErrLevelNotFound is wrapped when a store has no level under the requested name.
var ErrLevelNotFound = errors.New("level not found")

// LevelMeta is a lightweight catalog entry.
type LevelMeta struct {
	Name     string `json:"name"`
	GridSize int    `json:"grid_size"`
	Targets  int    `json:"targets"`
}

// LevelStore persists level definitions. Puzzle progress is never stored.
type LevelStore interface {
	SaveLevel(ctx context.Context, cfg models.LevelConfig) error
	LoadLevel(ctx context.Context, name string) (models.LevelConfig, error)
	ListLevels(ctx context.Context) ([]LevelMeta, error)
	Close() error
}

func metaOf(cfg models.LevelConfig) LevelMeta {
	return LevelMeta{Name: cfg.Name, GridSize: cfg.GridSize, Targets: len(cfg.Targets)}
}
