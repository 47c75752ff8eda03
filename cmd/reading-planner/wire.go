// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reading-planner/internal/discover"
	"github.com/pdiddy/reading-planner/internal/embed"
	"github.com/pdiddy/reading-planner/internal/logger"
	"github.com/pdiddy/reading-planner/internal/rank"
	"github.com/pdiddy/reading-planner/internal/search"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// newEmbedder builds the embedder and loads its model. Loading up front
// surfaces a bad provider setup before any network search is spent.
func newEmbedder(ctx context.Context, c types.EmbeddingConfig) (*embed.Embedder, error) {
	emb, err := embed.NewFromConfig(c)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := emb.Initialize(ctx); err != nil {
		emb.Shutdown()
		return nil, err
	}
	logger.Info("loaded %s (dim %d) in %s", emb.ModelName(), emb.Dimension(), time.Since(start).Round(time.Millisecond))
	return emb, nil
}

// newService wires the configured candidate source and the ranker into a
// discover service.
func newService(c types.Config, emb *embed.Embedder) (*discover.Service, error) {
	src, err := search.NewSource(c.Search)
	if err != nil {
		return nil, err
	}
	return discover.New(
		src,
		rank.New(emb),
		discover.WithDefaultLimit(c.Search.DefaultLimit),
		discover.WithPlanTarget(c.Plan.TargetCount),
	), nil
}

// splitKeywords parses a comma-separated keyword flag.
func splitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// limitFlag returns the --limit value, or nil when the flag was not given
// so the configured default applies.
func limitFlag(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("limit") {
		return nil
	}
	n, _ := cmd.Flags().GetInt("limit")
	return &n
}

// readYAMLFile decodes a YAML or JSON file into v.
func readYAMLFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
