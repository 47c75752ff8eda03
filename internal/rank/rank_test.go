// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reading-planner/internal/embed"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// --- fake embedder ---

// vocabEmbedder maps each known lowercase word to one axis and counts
// occurrences, so similarity is exact and predictable.
type vocabEmbedder struct {
	vocab []string
	err   error
	calls [][]string
}

func (v *vocabEmbedder) Embed(_ context.Context, texts []string) ([]embed.Vector, error) {
	v.calls = append(v.calls, append([]string(nil), texts...))
	if v.err != nil {
		return nil, v.err
	}
	out := make([]embed.Vector, len(texts))
	for i, t := range texts {
		vec := make(embed.Vector, len(v.vocab))
		for _, w := range strings.Fields(strings.ToLower(t)) {
			for axis, known := range v.vocab {
				if w == known {
					vec[axis]++
				}
			}
		}
		out[i] = vec
	}
	return out, nil
}

// fixedEmbedder returns a fixed vector per text.
type fixedEmbedder map[string]embed.Vector

func (f fixedEmbedder) Embed(_ context.Context, texts []string) ([]embed.Vector, error) {
	out := make([]embed.Vector, len(texts))
	for i, t := range texts {
		v, ok := f[t]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func papers(titles ...string) []types.Paper {
	out := make([]types.Paper, len(titles))
	for i, t := range titles {
		out[i] = types.Paper{ID: fmt.Sprintf("p%d", i), Title: t}
	}
	return out
}

// --- intent construction ---

func TestBuildIntent(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		keywords []string
		want     string
	}{
		{"topic twice", "transformers", nil, "transformers transformers"},
		{"with keywords", "transformers", []string{"attention", "BERT"}, "transformers transformers attention BERT"},
		{"trims topic and keywords", "  graph nets ", []string{" gnn ", "", "   "}, "graph nets graph nets gnn"},
		{"empty topic", "", []string{"attention"}, "attention"},
		{"everything empty", " ", nil, ""},
		{
			"seven keywords keep first five non-empty",
			"t",
			[]string{"k1", "", "k2", "k3", " ", "k4", "k5", "k6", "k7"},
			"t t k1 k2 k3 k4 k5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildIntent(tt.topic, tt.keywords); got != tt.want {
				t.Errorf("BuildIntent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchQueryUsesTopicOnce(t *testing.T) {
	got := SearchQuery(" bayesian hierarchical models ", []string{"Gibbs sampler", "Stan"})
	want := "bayesian hierarchical models Gibbs sampler Stan"
	if got != want {
		t.Errorf("SearchQuery() = %q, want %q", got, want)
	}
}

func TestCleanKeywordsCap(t *testing.T) {
	kws := []string{"a", "b", "c", "d", "e", "f", "g"}
	got := CleanKeywords(kws)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
	assert.Len(t, kws, 7, "input must not be modified")
}

// --- normalization ---

func TestNormalizeUnitLength(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		dim := 1 + rng.Intn(512)
		v := make(embed.Vector, dim)
		for i := range v {
			v[i] = float32(rng.Float64()*20 - 10)
		}
		if Norm(v) == 0 {
			continue
		}
		n := Norm(Normalize(v))
		if math.Abs(n-1) > 1e-6 {
			t.Fatalf("trial %d: norm = %v, want 1", trial, n)
		}
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	got := Normalize(make(embed.Vector, 5))
	require.Len(t, got, 5)
	for i, x := range got {
		if x != 0 || math.IsNaN(float64(x)) {
			t.Errorf("component %d = %v, want 0", i, x)
		}
	}
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	v := embed.Vector{3, 4}
	got := Normalize(v)
	assert.Equal(t, embed.Vector{3, 4}, v)
	assert.InDelta(t, 0.6, got[0], 1e-6)
	assert.InDelta(t, 0.8, got[1], 1e-6)
}

func TestNormalizeReproducible(t *testing.T) {
	v := embed.Vector{0.1, -0.7, 3.3, 1e-5}
	a, b := Normalize(v), Normalize(v)
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			t.Fatalf("component %d differs bitwise", i)
		}
	}
}

func TestSelfSimilarityIsOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		v := make(embed.Vector, 384)
		for i := range v {
			v[i] = float32(rng.NormFloat64())
		}
		n := Normalize(v)
		assert.InDelta(t, 1.0, Dot(n, n), 1e-6)
	}
}

// --- ranking ---

func TestRankScenarioTransformers(t *testing.T) {
	e := &vocabEmbedder{vocab: []string{"transformers", "attention", "bert", "gardening", "tips"}}
	r := New(e)

	got, err := r.Rank(context.Background(), "transformers", []string{"attention", "BERT"},
		papers("Attention Is All You Need", "Unrelated Gardening Tips"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Attention Is All You Need", got[0].Title)
	assert.Equal(t, "Unrelated Gardening Tips", got[1].Title)
	assert.Greater(t, got[0].Score, got[1].Score)
	assert.InDelta(t, 1/math.Sqrt(6), got[0].Score, 1e-6)

	// One intent call, then one batched call for all titles.
	require.Len(t, e.calls, 2)
	assert.Equal(t, []string{"transformers transformers attention BERT"}, e.calls[0])
	assert.Equal(t, []string{"Attention Is All You Need", "Unrelated Gardening Tips"}, e.calls[1])
}

func TestRankScenarioTransformersLocalModel(t *testing.T) {
	e := embed.New(embed.NewHashingModel(0))
	defer e.Shutdown()

	got, err := New(e).Rank(context.Background(), "transformers", []string{"attention", "BERT"},
		papers("Unrelated Gardening Tips", "Attention Is All You Need"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Attention Is All You Need", got[0].Title)
	assert.Equal(t, "Unrelated Gardening Tips", got[1].Title)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestRankEmptyCandidatesSkipsEmbedder(t *testing.T) {
	e := &vocabEmbedder{err: errors.New("must not be called")}
	got, err := New(e).Rank(context.Background(), "topic", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, e.calls)
}

func TestRankPropagatesEmbeddingFailure(t *testing.T) {
	failure := fmt.Errorf("%w: model offline", embed.ErrEmbeddingFailure)
	e := &vocabEmbedder{err: failure}

	got, err := New(e).Rank(context.Background(), "topic", nil, papers("a"))
	assert.Nil(t, got)
	assert.ErrorIs(t, err, embed.ErrEmbeddingFailure)
	assert.Equal(t, failure, err)
}

func TestRankDimensionMismatch(t *testing.T) {
	e := fixedEmbedder{
		"q q": {1, 0},
		"a":   {1, 0, 0},
	}
	_, err := New(e).Rank(context.Background(), "q", nil, papers("a"))
	assert.ErrorIs(t, err, embed.ErrEmbeddingFailure)
}

func TestRankStableTieBreak(t *testing.T) {
	e := fixedEmbedder{
		"q q":    {1, 0},
		"first":  {1, 1},
		"second": {2, 2},
		"best":   {1, 0},
		"third":  {3, 3},
	}
	got, err := New(e).Rank(context.Background(), "q", nil, papers("first", "second", "best", "third"))
	require.NoError(t, err)

	var titles []string
	for _, g := range got {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{"best", "first", "second", "third"}, titles)
}

func TestRankEmptyTitleAndZeroVector(t *testing.T) {
	e := fixedEmbedder{
		"q q":    {1, 0},
		"":       {0, 0},
		"away":   {-1, 0},
		"toward": {1, 0},
	}
	got, err := New(e).Rank(context.Background(), "q", nil, papers("", "away", "toward"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "toward", got[0].Title)
	assert.Equal(t, "", got[1].Title)
	assert.Equal(t, 0.0, got[1].Score)
	assert.Equal(t, "away", got[2].Title)
	assert.InDelta(t, -1.0, got[2].Score, 1e-6)
}

func TestRankPreservesMetadataAndInput(t *testing.T) {
	e := &vocabEmbedder{vocab: []string{"graph", "vision"}}
	in := []types.Paper{
		{ID: "v", Title: "vision", Year: 2021, URL: "https://example.org/v", Authors: []string{"A"}},
		{ID: "g", Title: "graph", Year: 2019, URL: "https://example.org/g", CitationCount: 12},
	}
	snapshot := append([]types.Paper(nil), in...)

	got, err := New(e).Rank(context.Background(), "graph", nil, in)
	require.NoError(t, err)

	assert.Equal(t, snapshot, in)
	assert.Equal(t, in[1], got[0].Paper)
	assert.Equal(t, in[0], got[1].Paper)
}

func TestRankPropertiesWithLocalModel(t *testing.T) {
	emb := embed.New(embed.NewHashingModel(256))
	r := New(emb)

	titles := []string{
		"Attention Is All You Need",
		"BERT: Pre-training of Deep Bidirectional Transformers",
		"Graph Attention Networks",
		"Deep Residual Learning for Image Recognition",
		"",
		"Unrelated Gardening Tips",
		"Transformers for Time Series Forecasting",
	}
	cands := papers(titles...)

	first, err := r.Rank(context.Background(), "transformers", []string{"attention"}, cands)
	require.NoError(t, err)

	// No items dropped or duplicated.
	require.Len(t, first, len(cands))
	seen := map[string]bool{}
	for _, p := range first {
		assert.False(t, seen[p.ID], "duplicate %s", p.ID)
		seen[p.ID] = true
	}

	// Sorted non-increasing.
	assert.True(t, sort.SliceIsSorted(first, func(i, j int) bool {
		return first[i].Score > first[j].Score
	}))

	// Deterministic across calls.
	second, err := r.Rank(context.Background(), "transformers", []string{"attention"}, cands)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
