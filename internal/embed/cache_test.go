// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reading-planner/pkg/types"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache", "embeddings.db"))
	require.NoError(t, err)
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := testCache(t)
	defer c.Close()
	ctx := context.Background()

	vecs := []Vector{{1, -2.5, 3}, {0, 0, 0.125}}
	require.NoError(t, c.Store(ctx, "m", []string{"a", "b"}, vecs))

	found, err := c.Lookup(ctx, "m", 3, []string{"b", "missing", "a"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, vecs[1], found[0])
	assert.Equal(t, vecs[0], found[2])

	// Other models do not share entries.
	other, err := c.Lookup(ctx, "other", 3, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, other)

	// Rows of another length are misses.
	wrongDim, err := c.Lookup(ctx, "m", 4, []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, wrongDim)

	n, err := c.Count(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCacheStoreLengthMismatch(t *testing.T) {
	c := testCache(t)
	defer c.Close()
	err := c.Store(context.Background(), "m", []string{"a"}, nil)
	assert.Error(t, err)
}

func TestCachedModelEncodesOnlyMisses(t *testing.T) {
	inner := &fakeModel{dim: 3}
	m := WithCache(inner, testCache(t))
	e := New(m)
	defer e.Shutdown()
	ctx := context.Background()

	first, err := e.Embed(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)

	second, err := e.Embed(ctx, []string{"beta", "gamma", "alpha"})
	require.NoError(t, err)

	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[2])

	require.Len(t, inner.seen, 2)
	assert.Equal(t, []string{"alpha", "beta"}, inner.seen[0])
	assert.Equal(t, []string{"gamma"}, inner.seen[1])

	// Fully cached batch never reaches the model.
	_, err = e.Embed(ctx, []string{"gamma", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.encodes.Load())
}

func TestCachedModelIgnoresStaleDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.db")
	ctx := context.Background()

	open := func(dim int) (*fakeModel, *Embedder) {
		c, err := OpenCache(path)
		require.NoError(t, err)
		inner := &fakeModel{dim: dim}
		return inner, New(WithCache(inner, c))
	}

	_, old := open(8)
	_, err := old.Embed(ctx, []string{"attention", "graphs"})
	require.NoError(t, err)
	old.Shutdown()

	// Same model name, new output length.
	inner, e := open(4)
	vecs, err := e.Embed(ctx, []string{"attention", "graphs"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Len(t, vecs[0], 4)
	assert.Len(t, vecs[1], 4)
	assert.Equal(t, int32(1), inner.encodes.Load())

	// The stale rows were overwritten, so a repeat is served from the cache.
	vecs, err = e.Embed(ctx, []string{"graphs"})
	require.NoError(t, err)
	assert.Len(t, vecs[0], 4)
	assert.Equal(t, int32(1), inner.encodes.Load())
	e.Shutdown()
}

func TestCachedModelSurvivesCacheFailure(t *testing.T) {
	inner := &fakeModel{dim: 3}
	c := testCache(t)
	m := WithCache(inner, c)
	require.NoError(t, c.Close())

	vecs, err := m.Encode(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, int32(1), inner.encodes.Load())
}

func TestCachedModelClosesCache(t *testing.T) {
	inner := &fakeModel{dim: 2}
	m := WithCache(inner, testCache(t))
	require.NoError(t, m.Close())
	assert.Equal(t, int32(1), inner.closes.Load())
}

func TestNewFromConfigWithCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.db")
	e, err := NewFromConfig(types.EmbeddingConfig{Provider: types.ProviderLocal, Dimensions: 16, CachePath: path})
	require.NoError(t, err)
	defer e.Shutdown()

	vecs, err := e.Embed(context.Background(), []string{"sparse attention"})
	require.NoError(t, err)
	assert.Len(t, vecs[0], 16)
	assert.FileExists(t, path)
}

func TestVectorEncoding(t *testing.T) {
	v := Vector{1.5, -0.25, 0, 3e-8}
	got, err := decodeVector(encodeVector(v), len(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = decodeVector([]byte{1, 2, 3}, 1)
	assert.Error(t, err)
}
