// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pdiddy/reading-planner/internal/discover"
	"github.com/pdiddy/reading-planner/internal/embed"
	"github.com/pdiddy/reading-planner/internal/logger"
	"github.com/pdiddy/reading-planner/internal/search"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// Error kinds reported in the "error" field of failure bodies.
const (
	kindInvalidInput      = "invalid_input"
	kindEmbeddingFailure  = "embedding_failure"
	kindSearchAPIError    = "search_api_error"
	kindSearchUnavailable = "search_unavailable"
	kindRequestCanceled   = "request_canceled"
)

// statusClientClosedRequest is reported when the client went away before
// the answer was ready. net/http has no constant for it.
const statusClientClosedRequest = 499

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code,omitempty"`
}

type healthBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Message: "reading-planner running"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var limit *int
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: limit %q is not an integer", discover.ErrInvalidInput, v))
			return
		}
		limit = &n
	}

	listing, err := s.svc.List(r.Context(), q.Get("topic"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req types.SearchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.svc.Search(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req types.PlanRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Plan(req))
}

// decodeBody reads one JSON object from the request. Syntax and type
// errors are reported as invalid input.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", discover.ErrInvalidInput)
		}
		return fmt.Errorf("%w: %v", discover.ErrInvalidInput, err)
	}
	return nil
}

// classify maps an error to its HTTP status and body.
func classify(err error) (int, errorBody) {
	var apiErr *search.APIError
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, errorBody{Error: kindRequestCanceled, Detail: err.Error()}
	case errors.Is(err, discover.ErrInvalidInput):
		return http.StatusBadRequest, errorBody{Error: kindInvalidInput, Detail: err.Error()}
	case errors.Is(err, embed.ErrEmbeddingFailure):
		return http.StatusInternalServerError, errorBody{Error: kindEmbeddingFailure, Detail: err.Error()}
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, errorBody{Error: kindSearchAPIError, Detail: apiErr.Detail, StatusCode: apiErr.StatusCode}
	default:
		return http.StatusBadGateway, errorBody{Error: kindSearchUnavailable, Detail: err.Error()}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status == statusClientClosedRequest {
		logger.Debug("%s %s [%s]: %v", r.Method, r.URL.Path, requestID(r.Context()), err)
	} else {
		logger.Warn("%s %s [%s]: %v", r.Method, r.URL.Path, requestID(r.Context()), err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}
