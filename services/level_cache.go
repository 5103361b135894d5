package services

import (
	"context"
	"sync"

	"numbertrail/server/models"
)

// LevelCache holds built levels by name, building each one on first use
type LevelCache struct {
	levels map[string]*models.Level
	mutex  sync.RWMutex
}

// NewLevelCache creates an empty cache
func NewLevelCache() *LevelCache {
	return &LevelCache{
		levels: make(map[string]*models.Level),
	}
}

// Get returns the cached level for name, calling build on a miss
func (lc *LevelCache) Get(ctx context.Context, name string, build func(context.Context, string) (*models.Level, error)) (*models.Level, error) {
	lc.mutex.RLock()
	level, exists := lc.levels[name]
	lc.mutex.RUnlock()
	if exists {
		return level, nil
	}

	level, err := build(ctx, name)
	if err != nil {
		return nil, err
	}

	lc.mutex.Lock()
	defer lc.mutex.Unlock()
	// another goroutine may have filled it meanwhile
	if cached, exists := lc.levels[name]; exists {
		return cached, nil
	}
	lc.levels[name] = level
	return level, nil
}

// Invalidate drops name so the next Get rebuilds it
func (lc *LevelCache) Invalidate(name string) {
	lc.mutex.Lock()
	defer lc.mutex.Unlock()
	delete(lc.levels, name)
}

// Len returns the number of cached levels
func (lc *LevelCache) Len() int {
	lc.mutex.RLock()
	defer lc.mutex.RUnlock()
	return len(lc.levels)
}
