package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_TYPE", "DB_FILE", "LEVELS_FILE", "LOG_LEVEL", "LOG_FORMAT", "ALLOWED_ORIGIN"} {
		t.Setenv(k, "")
	}
	cfg := loadConfig()
	if cfg.Port != "8080" || cfg.DBType != "json" || cfg.DBFile != "levels.json" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LevelsFile != "" || cfg.AllowedOrigin != "" {
		t.Fatalf("optional settings should be empty: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_TYPE", "Postgres")
	t.Setenv("LEVELS_FILE", "pack.yaml")
	cfg := loadConfig()
	if cfg.Port != "9000" || cfg.DBType != "postgres" || cfg.LevelsFile != "pack.yaml" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := newLogger(Config{LogLevel: tt.level}, &bytes.Buffer{})
			if got := log.GetLevel(); got != tt.want {
				t.Fatalf("level=%v want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(Config{LogLevel: "info"}, &buf)
	log.Info().Str("level_name", "default").Msg("hello")
	if out := buf.String(); !strings.HasPrefix(out, "{") || !strings.Contains(out, `"level_name":"default"`) {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestOpenStore(t *testing.T) {
	cfg := Config{DBType: "json", DBFile: filepath.Join(t.TempDir(), "levels.json")}
	store, err := openStore(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	store.Close()

	if _, err := openStore(context.Background(), Config{DBType: "sqlite"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected an error for an unknown DB_TYPE")
	}
}
