// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// DefaultLocalDimensions matches the vector size of all-MiniLM-L6-v2 so a
// cache or config can switch between the local and remote MiniLM backends.
const DefaultLocalDimensions = 384

const trigramWeight = 0.5

// stopwords carry no topical signal in paper titles.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "by": {},
	"for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "via": {}, "with": {}, "you": {}, "all": {},
	"we": {}, "our": {}, "its": {}, "be": {}, "this": {}, "that": {},
}

// HashingModel is an in-process text encoder. It projects lowercase word
// unigrams and their character trigrams into Dimensions buckets with signed
// FNV-1a hashing. Texts sharing words or word stems land close together.
// It needs no network and is deterministic across runs and platforms.
type HashingModel struct {
	dim int
}

// NewHashingModel returns a hashing encoder of the given dimension;
// dim <= 0 selects DefaultLocalDimensions.
func NewHashingModel(dim int) *HashingModel {
	if dim <= 0 {
		dim = DefaultLocalDimensions
	}
	return &HashingModel{dim: dim}
}

// Name returns the backend identifier.
func (m *HashingModel) Name() string { return fmt.Sprintf("local:hashing-%d", m.dim) }

// Load reports the configured dimension.
func (m *HashingModel) Load(_ context.Context) (int, error) { return m.dim, nil }

// Encode hashes each text independently. It is pure CPU work and never
// fails.
func (m *HashingModel) Encode(_ context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		out[i] = m.encode(t)
	}
	return out, nil
}

// Close is a no-op.
func (m *HashingModel) Close() error { return nil }

func (m *HashingModel) encode(text string) Vector {
	v := make(Vector, m.dim)
	for _, word := range tokenize(text) {
		m.add(v, "w:"+word, 1)
		padded := "^" + word + "$"
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			m.add(v, "t:"+string(runes[i:i+3]), trigramWeight)
		}
	}
	return v
}

func (m *HashingModel) add(v Vector, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := sum % uint64(m.dim)
	if sum>>63 == 1 {
		weight = -weight
	}
	v[bucket] += weight
}

// tokenize lowercases text, splits on anything that is not a letter or
// digit, and drops stopwords.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		words = append(words, f)
	}
	return words
}
