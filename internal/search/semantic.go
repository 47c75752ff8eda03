// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/reading-planner/internal/httputil"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,year,url,authors,venue,citationCount"

// maxDetail bounds how much of an error body is kept on APIError.
const maxDetail = 4 << 10

// SemanticScholar queries the Semantic Scholar paper search API. All calls
// share one rate limiter.
type SemanticScholar struct {
	client    *httputil.Client
	apiKey    string
	userAgent string
	baseURL   string
}

// NewSemanticScholar builds a client from cfg. The limiter allows one call
// per cfg.RateInterval.
func NewSemanticScholar(cfg types.SearchConfig) *SemanticScholar {
	return &SemanticScholar{
		client: &httputil.Client{
			HTTP:       &http.Client{Timeout: cfg.Timeout},
			Limiter:    httputil.NewLimiter(cfg.RateInterval),
			MaxRetries: cfg.MaxRetries,
		},
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		baseURL:   cfg.BaseURL,
	}
}

// Name returns the source identifier.
func (s *SemanticScholar) Name() string { return SourceSemanticScholar }

// Search returns up to limit papers for query in source order. No matches
// is an empty slice and a nil error; a non-200 reply is an *APIError.
func (s *SemanticScholar) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	base := s.baseURL
	if base == "" {
		base = semanticAPIBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetail))
		return nil, &APIError{
			Source:     s.Name(),
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(detail)),
		}
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, p := range sr.Data {
		paper := types.Paper{
			ID:            p.PaperID,
			Title:         p.Title,
			Year:          p.Year,
			URL:           p.URL,
			Venue:         p.Venue,
			CitationCount: p.CitationCount,
		}
		for _, a := range p.Authors {
			if a.Name != "" {
				paper.Authors = append(paper.Authors, a.Name)
			}
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string           `json:"paperId"`
	Title         string           `json:"title"`
	Year          int              `json:"year"`
	URL           string           `json:"url"`
	Venue         string           `json:"venue"`
	CitationCount int              `json:"citationCount"`
	Authors       []semanticAuthor `json:"authors"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
