// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders candidate papers by cosine similarity between their
// titles and a synthesized research intent.
package rank

import "strings"

const (
	// MaxKeywords caps how many keywords shape the intent and the query.
	MaxKeywords = 5

	// TopicWeight is how many times the topic is repeated in the intent,
	// biasing the intent vector toward the topic over incidental keywords.
	TopicWeight = 2
)

// CleanKeywords trims keywords, drops empty ones, and keeps the first
// MaxKeywords. Extra keywords are dropped silently.
func CleanKeywords(keywords []string) []string {
	out := make([]string, 0, MaxKeywords)
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

// BuildIntent returns the text embedded as the research intent: the trimmed
// topic TopicWeight times followed by the cleaned keywords, space-joined.
func BuildIntent(topic string, keywords []string) string {
	return joinTerms(strings.TrimSpace(topic), TopicWeight, CleanKeywords(keywords))
}

// SearchQuery returns the query sent to the candidate source: the topic
// once followed by the cleaned keywords.
func SearchQuery(topic string, keywords []string) string {
	return joinTerms(strings.TrimSpace(topic), 1, CleanKeywords(keywords))
}

func joinTerms(topic string, repeat int, keywords []string) string {
	parts := make([]string, 0, repeat+len(keywords))
	for i := 0; i < repeat; i++ {
		parts = append(parts, topic)
	}
	parts = append(parts, keywords...)
	return strings.TrimSpace(strings.Join(parts, " "))
}
