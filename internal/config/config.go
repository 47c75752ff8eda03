// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the reading-planner configuration from defaults,
// the config file, and READING_PLANNER_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/reading-planner/pkg/types"
)

// EnvPrefix is the environment variable prefix; search.api_key is read
// from READING_PLANNER_SEARCH_API_KEY.
const EnvPrefix = "READING_PLANNER"

// DefaultUserAgent is sent on every outbound request.
const DefaultUserAgent = "reading-planner/0.1"

// SetDefaults registers every key with its default so that environment
// variables and Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("search.timeout", 30*time.Second)
	v.SetDefault("search.user_agent", DefaultUserAgent)
	v.SetDefault("search.source", "semantic_scholar")
	v.SetDefault("search.base_url", "")
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.email", "")
	v.SetDefault("search.rate_interval", time.Second)
	v.SetDefault("search.max_retries", 5)
	v.SetDefault("search.default_limit", 25)

	v.SetDefault("embedding.timeout", 60*time.Second)
	v.SetDefault("embedding.user_agent", DefaultUserAgent)
	v.SetDefault("embedding.provider", string(types.ProviderLocal))
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.dimensions", 0)
	v.SetDefault("embedding.cache_path", "")

	v.SetDefault("plan.target_count", 12)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// BindEnv wires READING_PLANNER_* variables onto v. Nested keys use
// underscores: server.addr is READING_PLANNER_SERVER_ADDR.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config and validates it. Callers run SetDefaults
// and BindEnv first and read any config file into v.
func Load(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func Validate(cfg types.Config) error {
	switch cfg.Search.Source {
	case "", "semantic_scholar", "openalex":
	default:
		return fmt.Errorf("search.source %q: want semantic_scholar or openalex", cfg.Search.Source)
	}
	switch cfg.Embedding.Provider {
	case "", types.ProviderLocal, types.ProviderOllama, types.ProviderOpenAI, types.ProviderGemini:
	default:
		return fmt.Errorf("embedding.provider %q: want local, ollama, openai, or gemini", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Search.RateInterval < 0 {
		return fmt.Errorf("search.rate_interval must not be negative, got %s", cfg.Search.RateInterval)
	}
	if cfg.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be positive, got %s", cfg.Search.Timeout)
	}
	if cfg.Search.MaxRetries < 0 {
		return fmt.Errorf("search.max_retries must not be negative, got %d", cfg.Search.MaxRetries)
	}
	if cfg.Search.DefaultLimit < 0 {
		return fmt.Errorf("search.default_limit must not be negative, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is empty")
	}
	return nil
}
