// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchRequest is the ranked search request accepted by the CLI and the
// HTTP surface. Only the first five non-empty keywords are used. Limit is
// clamped to [1, 50]; nil means the configured default.
type SearchRequest struct {
	Topic    string   `json:"topic" yaml:"topic"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Limit    *int     `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// SearchResponse carries the query sent to the candidate source and the
// ranked results, best first.
type SearchResponse struct {
	Query   string        `json:"query" yaml:"query"`
	Results []RankedPaper `json:"results" yaml:"results"`
}

// PaperListing is the unranked passthrough listing of the candidate source.
type PaperListing struct {
	Topic  string  `json:"topic" yaml:"topic"`
	Count  int     `json:"count" yaml:"count"`
	Papers []Paper `json:"papers" yaml:"papers"`
}
