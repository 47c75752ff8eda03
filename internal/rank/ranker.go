// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/reading-planner/internal/embed"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// Embedder encodes texts, one vector per input in order. *embed.Embedder
// satisfies it; tests substitute fakes.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([]embed.Vector, error)
}

// Ranker scores candidates against a research intent. It holds no mutable
// state and is safe for concurrent use.
type Ranker struct {
	embedder Embedder
}

// New returns a Ranker backed by embedder.
func New(embedder Embedder) *Ranker {
	return &Ranker{embedder: embedder}
}

// Rank builds the intent from topic and keywords and orders candidates by
// similarity to it, best first. See RankIntent.
func (r *Ranker) Rank(ctx context.Context, topic string, keywords []string, candidates []types.Paper) ([]types.RankedPaper, error) {
	return r.RankIntent(ctx, BuildIntent(topic, keywords), candidates)
}

// RankIntent scores every candidate title against intent and returns a new
// slice sorted by descending score; equal scores keep candidate order.
// An empty candidate list returns an empty result without touching the
// embedder. Embedder errors are returned unchanged.
func (r *Ranker) RankIntent(ctx context.Context, intent string, candidates []types.Paper) ([]types.RankedPaper, error) {
	if len(candidates) == 0 {
		return []types.RankedPaper{}, nil
	}

	intentVecs, err := r.embedder.Embed(ctx, []string{intent})
	if err != nil {
		return nil, err
	}
	if len(intentVecs) != 1 {
		return nil, fmt.Errorf("%w: got %d intent vectors", embed.ErrEmbeddingFailure, len(intentVecs))
	}

	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.Title
	}
	candidateVecs, err := r.embedder.Embed(ctx, titles)
	if err != nil {
		return nil, err
	}
	if len(candidateVecs) != len(candidates) {
		return nil, fmt.Errorf("%w: got %d vectors for %d candidates",
			embed.ErrEmbeddingFailure, len(candidateVecs), len(candidates))
	}

	intentN := Normalize(intentVecs[0])
	ranked := make([]types.RankedPaper, len(candidates))
	for i, v := range candidateVecs {
		if len(v) != len(intentN) {
			return nil, fmt.Errorf("%w: candidate %d has dimension %d, intent has %d",
				embed.ErrEmbeddingFailure, i, len(v), len(intentN))
		}
		ranked[i] = types.RankedPaper{
			Score: Dot(Normalize(v), intentN),
			Paper: candidates[i],
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
