package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cinema/internal/repository"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	receipts repository.ReceiptRepository
	timeout  time.Duration
}

func NewOrdersHandler(receipts repository.ReceiptRepository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		receipts: receipts,
		timeout:  timeout,
	}
}

func (h *OrdersHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if userFromContext(r.Context()) == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	transactionID := chi.URLParam(r, "transactionID")
	receipt, err := h.receipts.ReceiptByTransactionID(ctx, transactionID)
	if errors.Is(err, repository.ErrReceiptNotFound) {
		respondError(w, http.StatusNotFound, "receipt_not_found", "unknown transaction id")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "receipt_lookup_failed", "could not load receipt")
		return
	}

	respondJSON(w, http.StatusOK, receipt)
}
