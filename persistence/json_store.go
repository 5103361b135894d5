package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"numbertrail/server/models"
)

// JSONStore keeps levels in a single local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	fileMu   sync.Mutex // serializes writers of filePath
	data     *JSONData
}

// JSONData is the on-disk layout of the JSON store
type JSONData struct {
	Levels map[string]models.LevelConfig `json:"levels"`
}

// NewJSONStore opens filePath, creating it when missing
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Levels: make(map[string]models.LevelConfig),
		},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat JSON store: %w", err)
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Levels == nil {
		js.data.Levels = make(map[string]models.LevelConfig)
	}
	return nil
}

// saveToFile writes a temp file and renames it over filePath
func (js *JSONStore) saveToFile() error {
	js.fileMu.Lock()
	defer js.fileMu.Unlock()

	js.mutex.RLock()
	data, err := json.MarshalIndent(js.data, "", "  ")
	js.mutex.RUnlock()
	if err != nil {
		return err
	}

	tmp := js.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, js.filePath)
}

// SaveLevel inserts or replaces the level named cfg.Name
func (js *JSONStore) SaveLevel(ctx context.Context, cfg models.LevelConfig) error {
	if cfg.Name == "" {
		return errors.New("level name is required")
	}
	js.mutex.Lock()
	js.data.Levels[cfg.Name] = cfg.Clone()
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadLevel loads a level by name
func (js *JSONStore) LoadLevel(ctx context.Context, name string) (models.LevelConfig, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	cfg, exists := js.data.Levels[name]
	if !exists {
		return models.LevelConfig{}, fmt.Errorf("%w: %s", ErrLevelNotFound, name)
	}
	return cfg.Clone(), nil
}

// ListLevels returns every stored level, sorted by name
func (js *JSONStore) ListLevels(ctx context.Context) ([]LevelMeta, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	out := make([]LevelMeta, 0, len(js.data.Levels))
	for _, cfg := range js.data.Levels {
		out = append(out, metaOf(cfg))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Close is a no-op for the JSON store
func (js *JSONStore) Close() error {
	return nil
}
