// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/reading-planner/pkg/types"
)

// Ollama defaults. all-minilm is the Ollama build of all-MiniLM-L6-v2.
const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "all-minilm"
	defaultTimeout       = 30 * time.Second
)

// probeText is encoded once at load time. Ollama loads the model into
// memory on the first request, and the reply fixes the dimension.
const probeText = "reading planner model warmup"

// OllamaModel encodes text through a local Ollama server.
type OllamaModel struct {
	client  *http.Client
	baseURL string
	model   string
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewOllamaModel builds an Ollama backend, filling defaults for empty fields.
func NewOllamaModel(cfg types.EmbeddingConfig) *OllamaModel {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &OllamaModel{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		model:   model,
	}
}

// Name returns the backend identifier.
func (m *OllamaModel) Name() string { return "ollama:" + m.model }

// Load warms the model and reports its dimension.
func (m *OllamaModel) Load(ctx context.Context) (int, error) {
	vecs, err := m.Encode(ctx, []string{probeText})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 1 {
		return 0, fmt.Errorf("probe returned %d vectors", len(vecs))
	}
	return len(vecs[0]), nil
}

// Encode sends all texts in one /api/embed call.
func (m *OllamaModel) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: m.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make([]Vector, len(parsed.Embeddings))
	for i, e := range parsed.Embeddings {
		out[i] = Vector(e)
	}
	return out, nil
}

// Close is a no-op; the HTTP client needs no cleanup.
func (m *OllamaModel) Close() error { return nil }
