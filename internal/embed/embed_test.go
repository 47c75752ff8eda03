// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fake model ---

type fakeModel struct {
	dim       int
	loadErr   error
	encodeErr error
	// short drops the last vector from every Encode reply.
	short bool
	// wrongDim returns vectors of this length when non-zero.
	wrongDim int

	loads   atomic.Int32
	encodes atomic.Int32
	closes  atomic.Int32
	seen    [][]string
	mu      sync.Mutex
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Load(_ context.Context) (int, error) {
	f.loads.Add(1)
	if f.loadErr != nil {
		return 0, f.loadErr
	}
	return f.dim, nil
}

func (f *fakeModel) Encode(_ context.Context, texts []string) ([]Vector, error) {
	f.encodes.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, append([]string(nil), texts...))
	f.mu.Unlock()
	if f.encodeErr != nil {
		return nil, f.encodeErr
	}
	n := len(texts)
	if f.short {
		n--
	}
	dim := f.dim
	if f.wrongDim != 0 {
		dim = f.wrongDim
	}
	out := make([]Vector, n)
	for i := range out {
		v := make(Vector, dim)
		v[0] = float32(len(texts[i]))
		out[i] = v
	}
	return out, nil
}

func (f *fakeModel) Close() error {
	f.closes.Add(1)
	return nil
}

// --- tests ---

func TestEmbedPreservesOrderAndLength(t *testing.T) {
	m := &fakeModel{dim: 4}
	e := New(m)

	vecs, err := e.Embed(context.Background(), []string{"a", "bbb", "cc"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, float32(1), vecs[0][0])
	assert.Equal(t, float32(3), vecs[1][0])
	assert.Equal(t, float32(2), vecs[2][0])
	for _, v := range vecs {
		assert.Len(t, v, 4)
	}
	assert.Equal(t, 4, e.Dimension())
}

func TestEmbedEmptyStringsYieldZeroVectors(t *testing.T) {
	m := &fakeModel{dim: 3}
	e := New(m)

	vecs, err := e.Embed(context.Background(), []string{"", "title", "   "})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, Vector{0, 0, 0}, vecs[0])
	assert.Equal(t, Vector{0, 0, 0}, vecs[2])
	assert.Equal(t, float32(5), vecs[1][0])

	// Only the non-empty text reached the model.
	require.Len(t, m.seen, 1)
	assert.Equal(t, []string{"title"}, m.seen[0])
}

func TestEmbedAllEmptySkipsModel(t *testing.T) {
	m := &fakeModel{dim: 2}
	e := New(m)

	vecs, err := e.Embed(context.Background(), []string{"", ""})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, int32(0), m.encodes.Load())
}

func TestEmbedNoTexts(t *testing.T) {
	e := New(&fakeModel{dim: 2})
	vecs, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestInitializeLoadsOnceUnderConcurrency(t *testing.T) {
	m := &fakeModel{dim: 8}
	e := New(m)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Embed(context.Background(), []string{"concurrent"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), m.loads.Load())
	assert.True(t, e.Initialized())
}

func TestLoadFailureIsEmbeddingFailure(t *testing.T) {
	loadErr := errors.New("model artifact missing")
	m := &fakeModel{dim: 8, loadErr: loadErr}
	e := New(m)

	_, err := e.Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingFailure)
	assert.ErrorIs(t, err, loadErr)

	// The failed load is not retried.
	_, err = e.Embed(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrEmbeddingFailure)
	assert.Equal(t, int32(1), m.loads.Load())
	assert.False(t, e.Initialized())
	assert.Equal(t, 0, e.Dimension())
}

func TestZeroDimensionIsEmbeddingFailure(t *testing.T) {
	e := New(&fakeModel{dim: 0})
	err := e.Initialize(context.Background())
	assert.ErrorIs(t, err, ErrEmbeddingFailure)
}

func TestEncodeErrorIsEmbeddingFailure(t *testing.T) {
	encErr := errors.New("tokenizer exploded")
	e := New(&fakeModel{dim: 4, encodeErr: encErr})

	_, err := e.Embed(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrEmbeddingFailure)
	assert.ErrorIs(t, err, encErr)
}

func TestMalformedModelOutput(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"too few vectors", &fakeModel{dim: 4, short: true}},
		{"wrong dimension", &fakeModel{dim: 4, wrongDim: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.model).Embed(context.Background(), []string{"a", "b"})
			assert.ErrorIs(t, err, ErrEmbeddingFailure)
		})
	}
}

func TestInitializeIgnoresCallerCancellation(t *testing.T) {
	m := &fakeModel{dim: 4}
	e := New(m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Initialize(ctx))
	assert.Equal(t, 4, e.Dimension())
}

func TestShutdown(t *testing.T) {
	m := &fakeModel{dim: 4}
	e := New(m)
	require.NoError(t, e.Initialize(context.Background()))

	require.NoError(t, e.Shutdown())
	require.NoError(t, e.Shutdown())
	assert.Equal(t, int32(1), m.closes.Load())

	_, err := e.Embed(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrEmbeddingFailure)
}
