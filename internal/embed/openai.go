// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/pdiddy/reading-planner/pkg/types"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "text-embedding-3-small"
)

// OpenAIModel encodes text through an OpenAI-compatible REST endpoint:
//
//	POST {baseURL}/embeddings
//	{"model": "...", "input": ["...", "..."]}
type OpenAIModel struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

// NewOpenAIModel builds an OpenAI-compatible backend.
func NewOpenAIModel(cfg types.EmbeddingConfig) *OpenAIModel {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &OpenAIModel{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		model:   model,
		apiKey:  cfg.APIKey,
	}
}

// Name returns the backend identifier.
func (m *OpenAIModel) Name() string { return "openai:" + m.model }

// Load checks credentials and probes the endpoint for the dimension.
func (m *OpenAIModel) Load(ctx context.Context) (int, error) {
	if m.apiKey == "" {
		return 0, fmt.Errorf("embeddings API key is not configured (set embedding.api_key or .secrets/openai-api-key)")
	}
	vecs, err := m.Encode(ctx, []string{probeText})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 1 {
		return 0, fmt.Errorf("probe returned %d vectors", len(vecs))
	}
	return len(vecs[0]), nil
}

// Encode sends all texts in one request and restores input order from the
// per-item index in the reply.
func (m *OpenAIModel) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	body, err := json.Marshal(map[string]any{
		"model": m.model,
		"input": texts,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings request failed: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("cannot parse embeddings response: %w", err)
	}

	sort.SliceStable(parsed.Data, func(i, j int) bool {
		return parsed.Data[i].Index < parsed.Data[j].Index
	})
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d items for %d texts", len(parsed.Data), len(texts))
	}
	out := make([]Vector, len(parsed.Data))
	for i, d := range parsed.Data {
		if d.Index != i {
			return nil, fmt.Errorf("embeddings response indexes are not 0..%d (found %d at position %d)", len(texts)-1, d.Index, i)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("embeddings response missing embedding %d", d.Index)
		}
		out[i] = Vector(d.Embedding)
	}
	return out, nil
}

// Close is a no-op.
func (m *OpenAIModel) Close() error { return nil }
