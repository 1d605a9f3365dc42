package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type CheckoutRequestDTO struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
	CVV            string `json:"cvv"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" || userFromContext(r.Context()) == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	submission := domain.PaymentSubmission{
		CardNumber:     req.CardNumber,
		ExpirationDate: req.ExpirationDate,
		CVV:            req.CVV,
		Email:          req.Email,
		Name:           req.Name,
		DocumentType:   domain.DocumentType(req.DocumentType),
		DocumentNumber: req.DocumentNumber,
	}

	// No request timeout here beyond the per-collaborator ones: the
	// orchestrator bounds each external call itself.
	attempt, err := h.checkout.Submit(r.Context(), sessionID, submission)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, attempt.Confirmation())
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  http.StatusText(http.StatusUnprocessableEntity),
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty; nothing to check out")
	case errors.Is(err, service.ErrCheckoutInFlight):
		respondError(w, http.StatusConflict, "checkout_in_flight", "a checkout attempt is already in progress")
	case errors.Is(err, service.ErrPaymentDeclined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", "the transaction was declined")
	case errors.Is(err, service.ErrCompletionFailed):
		respondError(w, http.StatusBadGateway, "completion_failed", "payment accepted but order confirmation failed")
	default:
		respondError(w, http.StatusBadGateway, "checkout_failed", "payment processing failed")
	}
}
