package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// CatalogClient reads premieres and candy-store listings from the external
// catalog collaborator.
type CatalogClient struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		httpClient: newHTTPClient(timeout),
		baseURL:    baseURL,
		breaker:    newBreaker("catalog"),
	}
}

type premieresEnvelope struct {
	Data []domain.Premiere `json:"data"`
}

type candyStoreEnvelope struct {
	Data []domain.Product `json:"data"`
}

func (c *CatalogClient) Premieres(ctx context.Context) ([]domain.Premiere, error) {
	raw, err := doJSON(ctx, c.httpClient, c.breaker, http.MethodGet, c.baseURL+"/premieres", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	var envelope premieresEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return envelope.Data, nil
}

func (c *CatalogClient) CandyProducts(ctx context.Context) ([]domain.Product, error) {
	raw, err := doJSON(ctx, c.httpClient, c.breaker, http.MethodGet, c.baseURL+"/candystore", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	var envelope candyStoreEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return envelope.Data, nil
}
