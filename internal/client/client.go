package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrCatalogUnavailable is returned when the catalog collaborator cannot
	// be reached or answers with a non-2xx status.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrMalformedResponse is returned when a collaborator answers 2xx but
	// the body doesn't match the expected shape.
	ErrMalformedResponse = errors.New("malformed collaborator response")
)

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// doJSON issues one request through the breaker and returns the raw body.
// Non-2xx statuses count as breaker failures.
func doJSON(ctx context.Context, httpClient *http.Client, breaker *gobreaker.CircuitBreaker[[]byte], method, url string, payload any) ([]byte, error) {
	return breaker.Execute(func() ([]byte, error) {
		var body io.Reader
		if payload != nil {
			raw, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("marshal request: %w", err)
			}
			body = bytes.NewReader(raw)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("http new request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http client do: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		return raw, nil
	})
}
