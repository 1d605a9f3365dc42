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

// CompletionPayload finalizes an order after payment approval. All fields
// come from the submission and the gateway's payment result.
type CompletionPayload struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	DocumentNumber string `json:"documentNumber"`
	OperationDate  string `json:"operationDate"`
	TransactionID  string `json:"transactionId"`
}

// CompletionClient calls the order-completion collaborator.
type CompletionClient struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewCompletionClient(baseURL string, timeout time.Duration) *CompletionClient {
	return &CompletionClient{
		httpClient: newHTTPClient(timeout),
		baseURL:    baseURL,
		breaker:    newBreaker("completion"),
	}
}

func (c *CompletionClient) Complete(ctx context.Context, payload CompletionPayload) (*domain.CompletionResult, error) {
	raw, err := doJSON(ctx, c.httpClient, c.breaker, http.MethodPost, c.baseURL+"/complete", payload)
	if err != nil {
		return nil, fmt.Errorf("completion call failed: %w", err)
	}

	var result domain.CompletionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if result.Code == "" {
		return nil, fmt.Errorf("%w: missing completion code", ErrMalformedResponse)
	}

	return &result, nil
}
