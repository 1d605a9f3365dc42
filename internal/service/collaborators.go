package service

import (
	"context"
	"time"

	"github.com/fjod/go_cinema/internal/client"
	"github.com/fjod/go_cinema/internal/domain"
)

// PaymentGateway is the payment collaborator as the orchestrator consumes it.
type PaymentGateway interface {
	Charge(ctx context.Context, submission domain.PaymentSubmission, amount float64) (*domain.PaymentResult, error)
}

// OrderCompleter finalizes an order after payment approval.
type OrderCompleter interface {
	Complete(ctx context.Context, payload client.CompletionPayload) (*domain.CompletionResult, error)
}

type PaymentHandler struct {
	gateway PaymentGateway
	timeout time.Duration
}

func NewPaymentHandler(gateway PaymentGateway, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		gateway: gateway,
		timeout: timeout,
	}
}

type CompletionHandler struct {
	completer OrderCompleter
	timeout   time.Duration
}

func NewCompletionHandler(completer OrderCompleter, timeout time.Duration) *CompletionHandler {
	return &CompletionHandler{
		completer: completer,
		timeout:   timeout,
	}
}
