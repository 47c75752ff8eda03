// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the reading-planner pipeline:
// candidate papers, ranked results, reading plans, and configuration.
package types

// Paper is a candidate paper returned by the bibliographic search source.
// The ranker reads Title only; every other field is passthrough metadata
// preserved on the ranked result.
type Paper struct {
	// ID is the source identifier (Semantic Scholar paperId). Opaque.
	ID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`

	// Title is the paper title as returned by the source. May be empty.
	Title string `json:"title" yaml:"title"`

	// Year is the publication year, zero when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// URL points at the paper landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Authors lists author names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// CitationCount is the citation count reported by the source.
	CitationCount int `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// RankedPaper pairs a candidate with its cosine similarity to the research
// intent. Score lies roughly in [-1, 1] and is not clamped.
type RankedPaper struct {
	Score float64 `json:"score" yaml:"score"`
	Paper `yaml:",inline"`
}
