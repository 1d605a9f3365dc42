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

// Currency of every charge; the gateway operates in Peruvian soles.
const Currency = "PEN"

// PaymentClient submits card charges to the PayU-shaped payment gateway.
type PaymentClient struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		httpClient: newHTTPClient(timeout),
		baseURL:    baseURL,
		breaker:    newBreaker("payment"),
	}
}

type chargeBuyer struct {
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	DNINumber string `json:"dniNumber"`
}

type chargeRequest struct {
	CardNumber     string      `json:"cardNumber"`
	ExpirationDate string      `json:"expirationDate"`
	CVV            string      `json:"cvv"`
	Amount         float64     `json:"amount"`
	Currency       string      `json:"currency"`
	Description    string      `json:"description"`
	Buyer          chargeBuyer `json:"buyer"`
}

// Charge submits the card and amount to the gateway and returns its
// verdict. A well-formed decline is not an error; the caller inspects the
// result's approval state.
func (c *PaymentClient) Charge(ctx context.Context, submission domain.PaymentSubmission, amount float64) (*domain.PaymentResult, error) {
	req := chargeRequest{
		CardNumber:     submission.CardNumber,
		ExpirationDate: submission.ExpirationDate,
		CVV:            submission.CVV,
		Amount:         amount,
		Currency:       Currency,
		Description:    "Compra Cineplanet Dulceria",
		Buyer: chargeBuyer{
			Email:     submission.Email,
			FullName:  submission.Name,
			DNINumber: submission.DocumentNumber,
		},
	}

	raw, err := doJSON(ctx, c.httpClient, c.breaker, http.MethodPost, c.baseURL+"/payu/payment", req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway call failed: %w", err)
	}

	var result domain.PaymentResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// Fail fast on structurally broken verdicts instead of trusting them.
	if result.TransactionResponse.State == "" || result.TransactionID() == "" {
		return nil, fmt.Errorf("%w: missing transaction state or id", ErrMalformedResponse)
	}

	return &result, nil
}
