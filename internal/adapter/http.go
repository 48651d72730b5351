package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/logger"
)

// HTTPClient defines an interface for HTTP client operations to enable mocking
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// Get performs a GET request and unmarshals the response into result
	Get(ctx context.Context, url string, result interface{}) error

	// Post performs a POST request with a JSON body and unmarshals the response into result
	Post(ctx context.Context, url string, body io.Reader, result interface{}) error

	// Delete performs a DELETE request
	Delete(ctx context.Context, url string) error

	// Timeout returns the per-request timeout
	Timeout() time.Duration

	// SetTimeout replaces the per-request timeout
	SetTimeout(timeout time.Duration)
}

// RealHTTPClient implements HTTPClient using the standard http package
type RealHTTPClient struct {
	mu      sync.RWMutex
	client  *http.Client
	retries time.Duration
}

// NewHTTPClient creates a new real HTTP client
// maxRetryElapsed bounds the time spent retrying a rate limited or unreachable peer
func NewHTTPClient(timeout, maxRetryElapsed time.Duration) HTTPClient {
	if maxRetryElapsed <= 0 {
		maxRetryElapsed = timeout
	}
	return &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		retries: maxRetryElapsed,
	}
}

// Timeout returns the per-request timeout
func (c *RealHTTPClient) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.Timeout
}

// SetTimeout replaces the per-request timeout
func (c *RealHTTPClient) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = &http.Client{Timeout: timeout}
}

func (c *RealHTTPClient) httpClient() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry for rate limiting
func (c *RealHTTPClient) doRequestWithRetry(ctx context.Context, newRequest func() (*http.Request, error)) ([]byte, error) {
	var respBody []byte
	client := c.httpClient()

	operation := func() error {
		req, err := newRequest()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := client.Do(req)
		if err != nil {
			// Network errors are retryable
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
			}
		}()

		// Handle rate limiting - retry with backoff
		if resp.StatusCode == http.StatusTooManyRequests {
			logger.Warn("rate limited, retrying with backoff", zap.String("url", req.URL.String()))
			return fmt.Errorf("rate limited (429), retrying")
		}

		// Other non-2xx status codes are permanent errors
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			body, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body)))
		}

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}

		return nil
	}

	// Configure exponential backoff
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = c.retries
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}

	return respBody, nil
}

// Get performs a GET request and unmarshals the response into result
func (c *RealHTTPClient) Get(ctx context.Context, url string, result interface{}) error {
	respBody, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Post performs a POST request with a JSON body and unmarshals the response into result
func (c *RealHTTPClient) Post(ctx context.Context, url string, body io.Reader, result interface{}) error {
	payload, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}

	respBody, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Delete performs a DELETE request
func (c *RealHTTPClient) Delete(ctx context.Context, url string) error {
	_, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	})
	return err
}
