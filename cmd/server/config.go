package main

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config is read from the environment once at startup
type Config struct {
	Port          string
	DBType        string
	DatabaseURL   string
	DBFile        string
	LevelsFile    string
	LogLevel      string
	LogFormat     string
	AllowedOrigin string
}

func loadConfig() Config {
	return Config{
		Port:          getenv("PORT", "8080"),
		DBType:        strings.ToLower(getenv("DB_TYPE", "json")),
		DatabaseURL:   getenv("DATABASE_URL", "host=localhost user=numbertrail password=numbertrail dbname=numbertrail sslmode=disable"),
		DBFile:        getenv("DB_FILE", "levels.json"),
		LevelsFile:    os.Getenv("LEVELS_FILE"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "json"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newLogger builds the root logger. LOG_FORMAT=console gives human-readable output.
func newLogger(cfg Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
