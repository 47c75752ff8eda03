// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "reading-planner/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the candidate source.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Source selects the API: semantic_scholar (default) or openalex.
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// BaseURL overrides the selected source's search endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey is sent to Semantic Scholar in the x-api-key header when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Email is sent to OpenAlex as mailto for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// RateInterval is the minimum spacing between API calls (default 1s).
	RateInterval time.Duration `json:"rate_interval" yaml:"rate_interval" mapstructure:"rate_interval"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// DefaultLimit is the result limit used when a request leaves it unset (default 25).
	DefaultLimit int `json:"default_limit" yaml:"default_limit" mapstructure:"default_limit"`
}

// EmbeddingProvider names an embedding backend.
type EmbeddingProvider string

const (
	ProviderLocal  EmbeddingProvider = "local"
	ProviderOllama EmbeddingProvider = "ollama"
	ProviderOpenAI EmbeddingProvider = "openai"
	ProviderGemini EmbeddingProvider = "gemini"
)

// EmbeddingConfig holds settings for the text encoder.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the backend: local, ollama, openai, or gemini.
	Provider EmbeddingProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the backend model name (e.g. "all-minilm", "text-embedding-3-small").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL overrides the backend endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey authenticates against remote backends.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Dimensions is the vector length of the local encoder, and the requested
	// output dimensionality for gemini. Remote backends otherwise report their own.
	Dimensions int `json:"dimensions" yaml:"dimensions" mapstructure:"dimensions"`

	// CachePath enables the sqlite embedding cache when non-empty.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty" mapstructure:"cache_path"`
}

// PlanConfig holds reading plan settings.
type PlanConfig struct {
	// TargetCount is the default number of papers placed in a plan (default 12).
	TargetCount int `json:"target_count" yaml:"target_count" mapstructure:"target_count"`
}

// ServerConfig holds HTTP surface settings.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists CORS origins allowed to call the API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Config groups all component configurations.
type Config struct {
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	Plan      PlanConfig      `json:"plan" yaml:"plan" mapstructure:"plan"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
}
