// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search retrieves candidate papers from the bibliographic search
// API and renders ranked results.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/reading-planner/pkg/types"
)

// Source returns candidate papers for a free-text query.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Paper, error)
}

// Source names accepted by NewSource.
const (
	SourceSemanticScholar = "semantic_scholar"
	SourceOpenAlex        = "openalex"
)

// NewSource returns the candidate source named by cfg.Source. Empty selects
// Semantic Scholar.
func NewSource(cfg types.SearchConfig) (Source, error) {
	switch cfg.Source {
	case "", SourceSemanticScholar:
		return NewSemanticScholar(cfg), nil
	case SourceOpenAlex:
		return NewOpenAlex(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported search source: %s", cfg.Source)
	}
}

// ErrEmptyQuery is returned when the query has no searchable terms.
var ErrEmptyQuery = errors.New("query is empty: provide a topic or keywords")

// APIError reports a non-200 reply from the search API. It is distinct from
// an empty result, which is not an error.
type APIError struct {
	Source     string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s API returned HTTP %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s API returned HTTP %d: %s", e.Source, e.StatusCode, truncate(e.Detail, 200))
}

// FormatTable writes ranked results as a human-readable table to w.
func FormatTable(resp types.SearchResponse, w io.Writer) {
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-7s  %-4s  %-60s  %s\n", "Rank", "Score", "Year", "Title", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range resp.Results {
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		fmt.Fprintf(w, "%-4d  %-7.3f  %-4s  %-60s  %s\n",
			i+1, r.Score, year, truncate(r.Title, 60), r.URL)
	}

	fmt.Fprintf(w, "\n%d results for %q\n", len(resp.Results), resp.Query)
}

// FormatJSON writes the response as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
