// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"fmt"

	"github.com/pdiddy/reading-planner/pkg/types"
)

// NewModel returns the backend selected by cfg.Provider. An empty provider
// selects the local hashing encoder.
func NewModel(cfg types.EmbeddingConfig) (Model, error) {
	switch cfg.Provider {
	case types.ProviderLocal, "":
		return NewHashingModel(cfg.Dimensions), nil
	case types.ProviderOllama:
		return NewOllamaModel(cfg), nil
	case types.ProviderOpenAI:
		return NewOpenAIModel(cfg), nil
	case types.ProviderGemini:
		return NewGeminiModel(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported embeddings provider: %s", cfg.Provider)
	}
}

// NewFromConfig builds an Embedder for cfg, wrapping the backend in the
// SQLite cache when cfg.CachePath is set. The model is not loaded yet.
func NewFromConfig(cfg types.EmbeddingConfig) (*Embedder, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.CachePath != "" {
		cache, err := OpenCache(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		model = WithCache(model, cache)
	}
	return New(model), nil
}
