// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file holds one secret: the filename is the key name and the trimmed
// contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/reading-planner/internal/logger"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// Key files understood by Apply.
const (
	SemanticScholarKey = "semantic-scholar-api-key"
	OpenAIKey          = "openai-api-key"
	GeminiKey          = "gemini-api-key"
	OpenAlexEmail      = "openalex-email"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret %s: %v", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills API keys that cfg leaves empty from loaded secrets. Keys set
// through the config file or environment win. The embedding key is taken
// from the file matching the configured provider.
func Apply(cfg *types.Config, s map[string]string) {
	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = s[SemanticScholarKey]
	}
	if cfg.Search.Email == "" {
		cfg.Search.Email = s[OpenAlexEmail]
	}
	if cfg.Embedding.APIKey != "" {
		return
	}
	switch cfg.Embedding.Provider {
	case types.ProviderOpenAI:
		cfg.Embedding.APIKey = s[OpenAIKey]
	case types.ProviderGemini:
		cfg.Embedding.APIKey = s[GeminiKey]
	}
}
