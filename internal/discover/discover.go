// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover ties the candidate source, the ranker, and the planner
// into the request-level operations served by the CLI and the HTTP API.
package discover

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/reading-planner/internal/logger"
	"github.com/pdiddy/reading-planner/internal/plan"
	"github.com/pdiddy/reading-planner/internal/rank"
	"github.com/pdiddy/reading-planner/internal/search"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// ErrInvalidInput marks requests rejected before any network or embedding
// call. Callers match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

const (
	// MaxLimit is the upper clamp on candidates fetched per request.
	MaxLimit = 50

	// DefaultLimit applies when a ranked search leaves the limit unset.
	DefaultLimit = 25

	// DefaultListLimit applies when a listing leaves the limit unset.
	DefaultListLimit = 20

	// MinListTopic is the shortest topic a listing accepts, in characters.
	MinListTopic = 3
)

// Service answers ranked searches, raw listings, and plan requests. It is
// safe for concurrent use.
type Service struct {
	source       search.Source
	ranker       *rank.Ranker
	defaultLimit int
	planTarget   int

	// now supplies the plan start date; tests pin it.
	now func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithDefaultLimit sets the ranked search limit used when a request omits
// it.
func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// WithPlanTarget sets the plan size used when a request omits it.
func WithPlanTarget(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.planTarget = n
		}
	}
}

// WithClock replaces time.Now as the source of the plan start date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service fetching candidates from source and ordering them
// with ranker.
func New(source search.Source, ranker *rank.Ranker, opts ...Option) *Service {
	s := &Service{
		source:       source,
		ranker:       ranker,
		defaultLimit: DefaultLimit,
		planTarget:   plan.DefaultTargetCount,
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ClampLimit maps a requested limit into [1, MaxLimit], using def when n
// is nil.
func ClampLimit(n *int, def int) int {
	limit := def
	if n != nil {
		limit = *n
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Search fetches candidates for the request and ranks them against the
// research intent. A request with neither topic nor keywords is rejected
// with ErrInvalidInput. When the source finds nothing the response carries
// an empty result list and the embedder is not called. Source failures
// keep their *search.APIError; embedding failures keep
// embed.ErrEmbeddingFailure.
func (s *Service) Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error) {
	topic := strings.TrimSpace(req.Topic)
	keywords := rank.CleanKeywords(req.Keywords)
	if topic == "" && len(keywords) == 0 {
		return types.SearchResponse{}, fmt.Errorf("%w: topic or keywords required", ErrInvalidInput)
	}

	query := rank.SearchQuery(topic, keywords)
	limit := ClampLimit(req.Limit, s.defaultLimit)

	logger.Debug("searching %s for %q (limit %d)", s.source.Name(), query, limit)
	papers, err := s.source.Search(ctx, query, limit)
	if err != nil {
		return types.SearchResponse{}, fmt.Errorf("searching %s: %w", s.source.Name(), err)
	}
	logger.Debug("%s returned %d candidates", s.source.Name(), len(papers))

	results, err := s.ranker.Rank(ctx, topic, keywords, papers)
	if err != nil {
		return types.SearchResponse{}, err
	}
	return types.SearchResponse{Query: query, Results: results}, nil
}

// List returns the source's unranked candidates for topic. The topic must
// be at least MinListTopic characters after trimming. A nil limit uses
// DefaultListLimit.
func (s *Service) List(ctx context.Context, topic string, limit *int) (types.PaperListing, error) {
	topic = strings.TrimSpace(topic)
	if utf8.RuneCountInString(topic) < MinListTopic {
		return types.PaperListing{}, fmt.Errorf("%w: topic must be at least %d characters", ErrInvalidInput, MinListTopic)
	}

	papers, err := s.source.Search(ctx, topic, ClampLimit(limit, DefaultListLimit))
	if err != nil {
		return types.PaperListing{}, fmt.Errorf("searching %s: %w", s.source.Name(), err)
	}
	return types.PaperListing{Topic: topic, Count: len(papers), Papers: papers}, nil
}

// Plan builds the four-week reading plan for already-ranked results,
// starting today. A nil target uses the configured default.
func (s *Service) Plan(req types.PlanRequest) types.MonthlyPlan {
	target := s.planTarget
	if req.TargetCount != nil {
		target = *req.TargetCount
	}
	return plan.Build(req.Results, target, s.now())
}
