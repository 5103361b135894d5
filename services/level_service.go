package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"numbertrail/server/models"
	"numbertrail/server/persistence"
)

// UnknownLevelError is returned for a level name the catalog does not hold.
// Suggestion is the closest catalog name, if one is close enough.
type UnknownLevelError struct {
	Name       string
	Suggestion string
}

func (e *UnknownLevelError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown level %q, did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown level %q", e.Name)
}

func (e *UnknownLevelError) Unwrap() error { return persistence.ErrLevelNotFound }

// LevelService is the level catalog: it seeds and imports levels into the
// store and hands out validated, shared *models.Level values.
type LevelService struct {
	store persistence.LevelStore
	cache *LevelCache
	log   zerolog.Logger
}

// NewLevelService creates a catalog over store
func NewLevelService(store persistence.LevelStore, log zerolog.Logger) *LevelService {
	return &LevelService{
		store: store,
		cache: NewLevelCache(),
		log:   log,
	}
}

// DefaultLevelName is the level new sessions start on.
const DefaultLevelName = "default"

// Seed stores the built-in default level unless the store already has one.
func (s *LevelService) Seed(ctx context.Context) error {
	_, err := s.store.LoadLevel(ctx, DefaultLevelName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, persistence.ErrLevelNotFound) {
		return err
	}
	s.log.Info().Str("level", DefaultLevelName).Msg("seeding default level")
	return s.store.SaveLevel(ctx, models.DefaultLevelConfig())
}

// ImportPack loads a YAML level pack and saves every level in it.
// The pack is validated as a whole before anything is written.
func (s *LevelService) ImportPack(ctx context.Context, path string) (int, error) {
	levels, err := persistence.LoadLevelPack(path)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	for _, cfg := range levels {
		if err := s.store.SaveLevel(ctx, cfg); err != nil {
			return 0, fmt.Errorf("import %s: level %q: %w", path, cfg.Name, err)
		}
		s.cache.Invalidate(cfg.Name)
	}
	s.log.Info().Str("pack", path).Int("levels", len(levels)).Msg("level pack imported")
	return len(levels), nil
}

// List returns catalog entries sorted by name.
func (s *LevelService) List(ctx context.Context) ([]persistence.LevelMeta, error) {
	return s.store.ListLevels(ctx)
}

// Config returns the authoring form of a stored level.
func (s *LevelService) Config(ctx context.Context, name string) (models.LevelConfig, error) {
	name = strings.TrimSpace(name)
	cfg, err := s.store.LoadLevel(ctx, name)
	if errors.Is(err, persistence.ErrLevelNotFound) {
		return models.LevelConfig{}, s.unknown(ctx, name)
	}
	return cfg, err
}

// Level returns the validated level called name. An empty name selects the
// default level.
func (s *LevelService) Level(ctx context.Context, name string) (*models.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultLevelName
	}
	level, err := s.cache.Get(ctx, name, s.build)
	if errors.Is(err, persistence.ErrLevelNotFound) {
		return nil, s.unknown(ctx, name)
	}
	return level, err
}

func (s *LevelService) build(ctx context.Context, name string) (*models.Level, error) {
	cfg, err := s.store.LoadLevel(ctx, name)
	if err != nil {
		return nil, err
	}
	level, err := cfg.Build()
	if err != nil {
		s.log.Warn().Err(err).Str("level", name).Msg("stored level failed validation")
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	return level, nil
}

func (s *LevelService) unknown(ctx context.Context, name string) error {
	e := &UnknownLevelError{Name: name}
	metas, err := s.store.ListLevels(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("no suggestion: listing failed")
		return e
	}
	names := make([]string, len(metas))
	for i, m := range metas {
		names[i] = m.Name
	}
	e.Suggestion = closestName(name, names)
	return e
}

// closestName returns the candidate nearest to name by edit distance, or ""
// when none is within the length-scaled limit.
func closestName(name string, candidates []string) string {
	query := strings.ToLower(name)
	if query == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(query, strings.ToLower(c))
		if dist > nameDistanceLimit(len(c)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

func nameDistanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
