// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns short text into fixed-length vectors.
//
// An Embedder owns one Model (local feature hashing, Ollama, an
// OpenAI-compatible endpoint, or Gemini) and loads it at most once for the
// life of the process. All failures surface as ErrEmbeddingFailure; the
// package never substitutes zero vectors for text it could not encode.
package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrEmbeddingFailure marks errors where the model could not be loaded or
// could not encode the input. Callers match it with errors.Is.
var ErrEmbeddingFailure = errors.New("embedding failure")

// Vector is one embedding. All vectors from one Embedder share a length.
type Vector []float32

// Model is a text encoder backend.
type Model interface {
	// Name identifies the backend and model, e.g. "ollama:all-minilm".
	Name() string

	// Load prepares the model for use and reports its vector dimension.
	// It is called once per Embedder.
	Load(ctx context.Context) (int, error)

	// Encode returns one vector per text, in input order. Texts are
	// never empty.
	Encode(ctx context.Context, texts []string) ([]Vector, error)

	// Close releases backend resources.
	Close() error
}

// Embedder is the long-lived encoder shared by every ranking request.
// It is safe for concurrent use.
type Embedder struct {
	model Model

	once    sync.Once
	dim     int
	loadErr error
	loaded  atomic.Bool

	closed atomic.Bool
}

// New wraps a model. The model is not loaded until Initialize or the first Embed.
func New(model Model) *Embedder {
	return &Embedder{model: model}
}

// Initialize loads the model. Concurrent and repeated calls share a single
// load; a failed load is not retried.
func (e *Embedder) Initialize(ctx context.Context) error {
	e.once.Do(func() {
		// The load outlives the request that triggered it.
		dim, err := e.model.Load(context.WithoutCancel(ctx))
		if err != nil {
			e.loadErr = fmt.Errorf("%w: loading %s: %w", ErrEmbeddingFailure, e.model.Name(), err)
			return
		}
		if dim <= 0 {
			e.loadErr = fmt.Errorf("%w: %s reported dimension %d", ErrEmbeddingFailure, e.model.Name(), dim)
			return
		}
		e.dim = dim
		e.loaded.Store(true)
	})
	return e.loadErr
}

// Embed encodes texts into vectors, one per input, in order. Empty or
// blank texts yield the zero vector without reaching the model.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([]Vector, error) {
	if e.closed.Load() {
		return nil, fmt.Errorf("%w: embedder is shut down", ErrEmbeddingFailure)
	}
	if err := e.Initialize(ctx); err != nil {
		return nil, err
	}

	out := make([]Vector, len(texts))
	var (
		positions []int
		batch     []string
	)
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			out[i] = make(Vector, e.dim)
			continue
		}
		positions = append(positions, i)
		batch = append(batch, t)
	}
	if len(batch) == 0 {
		return out, nil
	}

	vecs, err := e.model.Encode(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEmbeddingFailure, e.model.Name(), err)
	}
	if len(vecs) != len(batch) {
		return nil, fmt.Errorf("%w: %s returned %d vectors for %d texts",
			ErrEmbeddingFailure, e.model.Name(), len(vecs), len(batch))
	}
	for j, v := range vecs {
		if len(v) != e.dim {
			return nil, fmt.Errorf("%w: %s returned dimension %d, want %d",
				ErrEmbeddingFailure, e.model.Name(), len(v), e.dim)
		}
		out[positions[j]] = v
	}
	return out, nil
}

// Dimension returns the vector length, or 0 before the model is loaded.
func (e *Embedder) Dimension() int {
	if e.Initialized() {
		return e.dim
	}
	return 0
}

// Initialized reports whether the model loaded successfully. It never
// triggers a load.
func (e *Embedder) Initialized() bool { return e.loaded.Load() }

// ModelName returns the backend model name.
func (e *Embedder) ModelName() string { return e.model.Name() }

// Shutdown releases the model. Later Embed calls fail.
func (e *Embedder) Shutdown() error {
	if e.closed.Swap(true) {
		return nil
	}
	return e.model.Close()
}
