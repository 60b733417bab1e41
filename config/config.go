package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"

	"goose-search/engine"
	"goose-search/movegen"
)

type Config struct {
	Logs   LogConfig
	Engine EngineConfig
	HTTP   HTTPConfig
}

type LogConfig struct {
	Style string // console or json
	Level string
}

type EngineConfig struct {
	Backend      movegen.Backend
	DefaultDepth int
}

type HTTPConfig struct {
	Addr        string
	MaxMoveTime time.Duration
}

const (
	defaultHTTPAddr        = ":8080"
	defaultMaxMoveTimeMsec = 10000
)

// LoadConfig reads the GOOSE_* environment. Unset values fall back to
// defaults; values that are set but invalid are reported as errors.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Logs: LogConfig{
			Style: getenv("GOOSE_LOG_STYLE", "console"),
			Level: getenv("GOOSE_LOG_LEVEL", "info"),
		},
		Engine: EngineConfig{
			Backend:      movegen.DefaultBackend,
			DefaultDepth: engine.DefaultSearchDepth,
		},
		HTTP: HTTPConfig{
			Addr:        getenv("GOOSE_HTTP_ADDR", defaultHTTPAddr),
			MaxMoveTime: defaultMaxMoveTimeMsec * time.Millisecond,
		},
	}

	if s := os.Getenv("GOOSE_BACKEND"); s != "" {
		backend, err := movegen.ParseBackend(s)
		if err != nil {
			return nil, fmt.Errorf("GOOSE_BACKEND: %w", err)
		}
		cfg.Engine.Backend = backend
	}

	if s := os.Getenv("GOOSE_DEFAULT_DEPTH"); s != "" {
		depth, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("error converting string to int: GOOSE_DEFAULT_DEPTH: %w", err)
		}
		if depth < 1 || depth > engine.MaxSearchDepth {
			return nil, fmt.Errorf("GOOSE_DEFAULT_DEPTH: %d outside [1, %d]", depth, engine.MaxSearchDepth)
		}
		cfg.Engine.DefaultDepth = depth
	}

	if s := os.Getenv("GOOSE_HTTP_MAX_MOVETIME_MS"); s != "" {
		msec, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("error converting string to int: GOOSE_HTTP_MAX_MOVETIME_MS: %w", err)
		}
		if msec <= 0 {
			return nil, fmt.Errorf("GOOSE_HTTP_MAX_MOVETIME_MS: must be positive, got %d", msec)
		}
		cfg.HTTP.MaxMoveTime = time.Duration(msec) * time.Millisecond
	}

	switch cfg.Logs.Style {
	case "console", "json":
	default:
		return nil, fmt.Errorf("GOOSE_LOG_STYLE: unknown style %q", cfg.Logs.Style)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Logs.Level)); err != nil {
		return nil, fmt.Errorf("GOOSE_LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// Logger builds a logger writing to w in the configured style and level.
func (c LogConfig) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Style == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetupGlobalLogger points the global zerolog logger at stderr. Stdout is
// reserved for UCI output.
func (c LogConfig) SetupGlobalLogger() {
	log.Logger = c.Logger(os.Stderr)
	zerolog.SetGlobalLevel(log.Logger.GetLevel())
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
