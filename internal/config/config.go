// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
// Credentials have no hardcoded defaults; missing required keys are reported
// by Validate at startup.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// LLM + embeddings (OpenAI-compatible API). The chat credential is a
	// hard requirement for the mood path.
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ChatModel       string `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingsModel string `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	ChatMaxTokens   int    `env:"CHAT_MAX_TOKENS" envDefault:"1200"`
	// PromptTokenBudget caps the user prompt size sent to the chat model.
	PromptTokenBudget int `env:"PROMPT_TOKEN_BUDGET" envDefault:"1000"`

	// Catalog providers.
	TMDBAPIKey        string `env:"TMDB_API_KEY"`
	TMDBBaseURL       string `env:"TMDB_BASE_URL" envDefault:"https://api.themoviedb.org/3"`
	TMDBImageBaseURL  string `env:"TMDB_IMAGE_BASE_URL" envDefault:"https://image.tmdb.org/t/p/w500"`
	GoogleBooksAPIKey string `env:"GOOGLE_BOOKS_API_KEY"`
	GoogleBooksURL    string `env:"GOOGLE_BOOKS_URL" envDefault:"https://www.googleapis.com/books/v1"`

	// Playlist provider; optional, the playlist degrades to null without it.
	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	SpotifyTokenURL     string `env:"SPOTIFY_TOKEN_URL" envDefault:"https://accounts.spotify.com/api/token"`
	SpotifyAPIURL       string `env:"SPOTIFY_API_URL" envDefault:"https://api.spotify.com/v1"`

	// ProviderTimeout bounds every external call so a slow provider degrades
	// that branch instead of hanging the whole request.
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`

	// PoolSize is the number of candidates requested from the LLM provider.
	PoolSize int `env:"POOL_SIZE" envDefault:"15"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"moodmatch-api"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// Validate reports missing required credentials. The LLM key is mandatory
// for the mood path and the TMDB key backs both enrichment and the
// fallback pool, so neither may be absent in a running process.
func (c Config) Validate() error {
	var missing []string
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.TMDBAPIKey == "" {
		missing = append(missing, "TMDB_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("op=config.Validate: missing required env: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SpotifyEnabled reports whether playlist lookup credentials are configured.
func (c Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }
