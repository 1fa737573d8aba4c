// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings of the research service.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DBPath is the SQLite database file.
	DBPath string
	// StaticDir serves a frontend when non-empty.
	StaticDir string

	// Provider credentials.
	OpenAIAPIKey    string
	AnthropicAPIKey string
	TavilyAPIKey    string
	BraveAPIKey     string

	// Auth service (GoTrue-style). Optional; when unset the server falls
	// back to a static verifier with the DevToken identity.
	AuthURL    string
	AuthAPIKey string
	DevToken   string

	// Research loop tuning. The delays accommodate provider rate limits and
	// depend on the providers' published limits, hence configurable.
	MaxLoops       int
	MaxSubQueries  int
	ModelCallDelay time.Duration
	SearchStagger  time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present (never overriding real env vars).
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be fully populated already.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:            envOr("RESEARCHMESH_ADDR", ":8080"),
		DBPath:          envOr("RESEARCHMESH_DB", "researchmesh.db"),
		StaticDir:       os.Getenv("RESEARCHMESH_STATIC_DIR"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		TavilyAPIKey:    os.Getenv("TAVILY_API_KEY"),
		BraveAPIKey:     os.Getenv("BRAVE_API_KEY"),
		AuthURL:         os.Getenv("AUTH_URL"),
		AuthAPIKey:      os.Getenv("AUTH_API_KEY"),
		DevToken:        os.Getenv("RESEARCHMESH_DEV_TOKEN"),
	}

	var err error
	if cfg.MaxLoops, err = envInt("RESEARCHMESH_MAX_LOOPS", 2); err != nil {
		return nil, err
	}
	if cfg.MaxSubQueries, err = envInt("RESEARCHMESH_MAX_SUB_QUERIES", 3); err != nil {
		return nil, err
	}
	if cfg.ModelCallDelay, err = envDuration("RESEARCHMESH_MODEL_CALL_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.SearchStagger, err = envDuration("RESEARCHMESH_SEARCH_STAGGER", 500*time.Millisecond); err != nil {
		return nil, err
	}

	if cfg.TavilyAPIKey == "" && cfg.BraveAPIKey == "" {
		return nil, fmt.Errorf("config: TAVILY_API_KEY or BRAVE_API_KEY must be set")
	}
	if cfg.OpenAIAPIKey == "" && cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("config: OPENAI_API_KEY or ANTHROPIC_API_KEY must be set")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
