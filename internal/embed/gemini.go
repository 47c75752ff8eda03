// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/pdiddy/reading-planner/pkg/types"
)

// DefaultGeminiModel is the Gemini API embedding model.
const DefaultGeminiModel = "gemini-embedding-001"

// GeminiModel encodes text with the Gemini embedding API. The genai client
// is created in Load so a missing key fails the one-time load, not every call.
type GeminiModel struct {
	model      string
	apiKey     string
	baseURL    string
	dimensions int
	httpClient *http.Client

	client *genai.Client
}

// NewGeminiModel builds a Gemini backend.
func NewGeminiModel(cfg types.EmbeddingConfig) *GeminiModel {
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &GeminiModel{
		model:      model,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the backend identifier.
func (m *GeminiModel) Name() string { return "gemini:" + m.model }

// Load creates the genai client and probes the model for its dimension.
func (m *GeminiModel) Load(ctx context.Context) (int, error) {
	if m.apiKey == "" {
		return 0, fmt.Errorf("gemini API key is not configured (set embedding.api_key or .secrets/gemini-api-key)")
	}
	cc := &genai.ClientConfig{
		APIKey:     m.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: m.httpClient,
	}
	if m.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: m.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return 0, fmt.Errorf("creating genai client: %w", err)
	}
	m.client = client

	vecs, err := m.Encode(ctx, []string{probeText})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 1 {
		return 0, fmt.Errorf("probe returned %d vectors", len(vecs))
	}
	return len(vecs[0]), nil
}

// Encode embeds all texts in one EmbedContent call.
func (m *GeminiModel) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	if m.client == nil {
		return nil, fmt.Errorf("gemini model is not loaded")
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: t}}}
	}

	cfg := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if m.dimensions > 0 {
		d := int32(m.dimensions)
		cfg.OutputDimensionality = &d
	}

	result, err := m.client.Models.EmbedContent(ctx, m.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	out := make([]Vector, len(result.Embeddings))
	for i, e := range result.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("empty embedding vector at %d", i)
		}
		out[i] = Vector(e.Values)
	}
	return out, nil
}

// Close is a no-op; genai clients hold no closable resources.
func (m *GeminiModel) Close() error { return nil }
