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

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// openAlexMaxPerPage is the largest page OpenAlex serves.
const openAlexMaxPerPage = 200

// OpenAlex queries the OpenAlex Works API. It needs no key; an email, when
// configured, is sent as mailto for polite pool access.
type OpenAlex struct {
	client    *httputil.Client
	email     string
	userAgent string
	baseURL   string
}

// NewOpenAlex builds a client from cfg, sharing the same rate limiting and
// retry policy as NewSemanticScholar.
func NewOpenAlex(cfg types.SearchConfig) *OpenAlex {
	return &OpenAlex{
		client: &httputil.Client{
			HTTP:       &http.Client{Timeout: cfg.Timeout},
			Limiter:    httputil.NewLimiter(cfg.RateInterval),
			MaxRetries: cfg.MaxRetries,
		},
		email:     cfg.Email,
		userAgent: cfg.UserAgent,
		baseURL:   cfg.BaseURL,
	}
}

// Name returns the source identifier.
func (o *OpenAlex) Name() string { return "openalex" }

// Search returns up to limit works for query in relevance order.
func (o *OpenAlex) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > openAlexMaxPerPage {
		limit = openAlexMaxPerPage
	}

	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(limit)},
		"page":     {"1"},
	}
	if o.email != "" {
		params.Set("mailto", o.email)
	}

	base := o.baseURL
	if base == "" {
		base = openAlexSearchBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if o.userAgent != "" {
		req.Header.Set("User-Agent", o.userAgent)
	}

	resp, err := o.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetail))
		return nil, &APIError{
			Source:     o.Name(),
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(detail)),
		}
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	papers := make([]types.Paper, 0, len(oar.Results))
	for _, work := range oar.Results {
		p := types.Paper{
			ID:            strings.TrimPrefix(work.ID, "https://openalex.org/"),
			Title:         work.Title,
			Year:          work.PublicationYear,
			CitationCount: work.CitedByCount,
			Venue:         work.PrimaryLocation.Source.DisplayName,
		}

		// OpenAlex is DOI-centric; the DOI URL is the most stable link.
		switch {
		case work.DOI != "":
			p.URL = work.DOI
		case work.PrimaryLocation.LandingPageURL != "":
			p.URL = work.PrimaryLocation.LandingPageURL
		default:
			p.URL = work.ID
		}

		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				p.Authors = append(p.Authors, authorship.Author.DisplayName)
			}
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	DOI             string               `json:"doi"`
	PublicationYear int                  `json:"publication_year"`
	CitedByCount    int                  `json:"cited_by_count"`
	Authorships     []openAlexAuthorship `json:"authorships"`
	PrimaryLocation openAlexLocation     `json:"primary_location"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	LandingPageURL string         `json:"landing_page_url"`
	Source         openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}
