// Package health sends fire-and-forget pings to a healthchecks-style
// endpoint at run start, clean completion and failure. Pings never block
// the pipeline and never affect its outcome.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/platcorn/newsbot/internal/logger"
)

// Signal pings a base URL: GET <base>/start, <base>, <base>/fail.
type Signal struct {
	baseURL string
	client  *http.Client
}

// NewSignal builds a Signal. An empty baseURL disables pinging entirely.
func NewSignal(baseURL string) *Signal {
	return &Signal{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Start signals that a run began.
func (s *Signal) Start(ctx context.Context) { s.ping(ctx, "/start") }

// Success signals a clean completion.
func (s *Signal) Success(ctx context.Context) { s.ping(ctx, "") }

// Fail signals that the run terminated on an error.
func (s *Signal) Fail(ctx context.Context) { s.ping(ctx, "/fail") }

func (s *Signal) ping(ctx context.Context, suffix string) {
	if s.baseURL == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+suffix, nil)
	if err != nil {
		return
	}
	resp, err := s.client.Do(req)
	if err != nil {
		logger.Debug("health ping failed", "suffix", suffix, "error", err)
		return
	}
	resp.Body.Close()
}
