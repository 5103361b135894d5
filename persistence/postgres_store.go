package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog"

	"numbertrail/server/models"
)

// PostgresStore keeps levels in PostgreSQL
type PostgresStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPostgresStore connects, pings and makes sure the schema exists
func NewPostgresStore(ctx context.Context, connectionString string, log zerolog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db, log: log}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (ps *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS levels (
		name TEXT PRIMARY KEY,
		grid_size INTEGER NOT NULL,
		start_row INTEGER,
		start_col INTEGER,
		targets JSONB NOT NULL,
		modifiers JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := ps.db.ExecContext(ctx, schema)
	return err
}

// SaveLevel upserts a level by name
func (ps *PostgresStore) SaveLevel(ctx context.Context, cfg models.LevelConfig) error {
	if cfg.Name == "" {
		return errors.New("level name is required")
	}
	targetsJSON, err := json.Marshal(nonNil(cfg.Targets))
	if err != nil {
		return fmt.Errorf("failed to marshal level targets: %w", err)
	}
	modifiersJSON, err := json.Marshal(nonNil(cfg.Modifiers))
	if err != nil {
		return fmt.Errorf("failed to marshal level modifiers: %w", err)
	}

	var startRow, startCol sql.NullInt64
	if cfg.Start != nil {
		startRow = sql.NullInt64{Int64: int64(cfg.Start.Row), Valid: true}
		startCol = sql.NullInt64{Int64: int64(cfg.Start.Col), Valid: true}
	}

	query := `
	INSERT INTO levels (name, grid_size, start_row, start_col, targets, modifiers)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (name)
	DO UPDATE SET
		grid_size = $2, start_row = $3, start_col = $4,
		targets = $5, modifiers = $6,
		updated_at = NOW()
	`

	_, err = ps.db.ExecContext(ctx, query,
		cfg.Name, cfg.GridSize, startRow, startCol,
		string(targetsJSON), string(modifiersJSON))
	if err != nil {
		return fmt.Errorf("failed to save level: %w", err)
	}

	return nil
}

// LoadLevel loads a level by name
func (ps *PostgresStore) LoadLevel(ctx context.Context, name string) (models.LevelConfig, error) {
	query := `SELECT name, grid_size, start_row, start_col, targets, modifiers FROM levels WHERE name = $1`

	var cfg models.LevelConfig
	var startRow, startCol sql.NullInt64
	var targetsJSON, modifiersJSON string

	err := ps.db.QueryRowContext(ctx, query, name).Scan(
		&cfg.Name, &cfg.GridSize, &startRow, &startCol, &targetsJSON, &modifiersJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LevelConfig{}, fmt.Errorf("%w: %s", ErrLevelNotFound, name)
		}
		return models.LevelConfig{}, fmt.Errorf("failed to load level: %w", err)
	}

	if startRow.Valid && startCol.Valid {
		start := models.Pos(int(startRow.Int64), int(startCol.Int64))
		cfg.Start = &start
	}
	if err := json.Unmarshal([]byte(targetsJSON), &cfg.Targets); err != nil {
		return models.LevelConfig{}, fmt.Errorf("failed to unmarshal level targets: %w", err)
	}
	if err := json.Unmarshal([]byte(modifiersJSON), &cfg.Modifiers); err != nil {
		return models.LevelConfig{}, fmt.Errorf("failed to unmarshal level modifiers: %w", err)
	}

	return cfg, nil
}

// ListLevels lists every stored level, sorted by name
func (ps *PostgresStore) ListLevels(ctx context.Context) ([]LevelMeta, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT name, grid_size, jsonb_array_length(targets) FROM levels ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var out []LevelMeta
	for rows.Next() {
		var m LevelMeta
		if err := rows.Scan(&m.Name, &m.GridSize, &m.Targets); err != nil {
			return nil, fmt.Errorf("failed to scan level: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	ps.log.Info().Msg("closing database connection")
	return ps.db.Close()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
