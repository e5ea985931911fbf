package connectors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"debatetxt/internal/config"
)

const maxAttempts = 5

// Client downloads pages and transcript files from the publishing site at a
// bounded request rate.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    time.Duration
}

func NewClient(cfg config.Config) *Client {
	rps := cfg.FetchRateLimitRPS
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		backoff:    250 * time.Millisecond,
	}
}

// Fetch returns the body of url, retrying transport errors and retryable
// statuses with exponential backoff.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "debatetxt")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.sleep(ctx, attempt)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				lastErr = fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
				c.sleep(ctx, attempt)
				continue
			}
			return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

func (c *Client) sleep(ctx context.Context, attempt int) {
	backoff := c.backoff*time.Duration(1<<(attempt-1)) + time.Duration(rand.Intn(100))*time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(backoff):
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
