// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the rate-limited, retrying HTTP client used for
// external APIs.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps how long a server-supplied Retry-After may stall us.
const maxRetryAfter = 2 * time.Minute

const defaultMaxRetries = 5

// Client sends requests through a Limiter and retries HTTP 429.
type Client struct {
	HTTP       *http.Client
	Limiter    *Limiter
	MaxRetries int
}

// Do executes req, waiting on the limiter before every attempt. On HTTP 429
// it backs off exponentially from RetryBaseDelay (2 s, 4 s, 8 s, ...), or for
// the Retry-After duration when the server sends one.
//
// When MaxRetries is 0 the default (5) is used. Each 429 body is drained
// and closed before sleeping. If ctx ends during a wait, Do returns
// ctx.Err(). After exhausting retries the last 429 response is returned so
// the caller can inspect it.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if attempt >= maxRetries {
			return resp, nil
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if ra, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			backoff = ra
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if c.Limiter != nil {
			c.Limiter.Defer(backoff)
			continue
		}

		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
