package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInFlight  = errors.New("checkout attempt already in progress")
	ErrPaymentDeclined   = errors.New("payment declined")
	ErrCompletionFailed  = errors.New("order completion failed")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)

// ValidationError carries per-field messages for a rejected payment form.
// It blocks submission entirely; the orchestrator never sees the attempt.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid payment submission: %s", strings.Join(names, ", "))
}
