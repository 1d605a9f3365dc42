package simulator

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var cardPattern = regexp.MustCompile(`^\d{16}$`)

// Handler exposes the collaborator endpoints the commerce service depends
// on: catalog reads, the payment gateway, and the completion call.
type Handler struct {
	store   *CatalogStore
	outcome OutcomeSource
	logger  *zap.Logger
}

func NewHandler(store *CatalogStore, outcome OutcomeSource, logger *zap.Logger) *Handler {
	return &Handler{
		store:   store,
		outcome: outcome,
		logger:  logger,
	}
}

func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/premieres", h.Premieres)
		r.Get("/candystore", h.CandyStore)
		r.Post("/payu/payment", h.Payment)
		r.Post("/complete", h.Complete)
	})

	return r
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

func (h *Handler) Premieres(w http.ResponseWriter, r *http.Request) {
	premieres, err := h.store.Premieres(r.Context())
	if err != nil {
		h.logger.Error("failed to read premieres", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope[domain.Premiere]{Data: premieres})
}

func (h *Handler) CandyStore(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.Products(r.Context())
	if err != nil {
		h.logger.Error("failed to read candy products", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope[domain.Product]{Data: products})
}

type paymentRequestDTO struct {
	CardNumber     string  `json:"cardNumber"`
	ExpirationDate string  `json:"expirationDate"`
	CVV            string  `json:"cvv"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Buyer          struct {
		Email     string `json:"email"`
		FullName  string `json:"fullName"`
		DNINumber string `json:"dniNumber"`
	} `json:"buyer"`
}

func (h *Handler) Payment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
		return
	}

	if !cardPattern.MatchString(req.CardNumber) || req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid card number or amount"})
		return
	}

	state := h.outcome.Outcome(req.CardNumber)
	result := buildPaymentResult(state)

	h.logger.Info("simulated charge",
		zap.String("state", state),
		zap.String("transaction_id", result.TransactionID()),
		zap.Float64("amount", req.Amount))

	writeJSON(w, http.StatusOK, result)
}

type completeRequestDTO struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	DocumentNumber string `json:"documentNumber"`
	OperationDate  string `json:"operationDate"`
	TransactionID  string `json:"transactionId"`
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
		return
	}

	if req.TransactionID == "" || req.OperationDate == "" {
		writeJSON(w, http.StatusOK, domain.CompletionResult{
			Code:    "1",
			Message: "Faltan datos de la transacción",
		})
		return
	}

	writeJSON(w, http.StatusOK, domain.CompletionResult{
		Code:    domain.CompletionSuccessCode,
		Message: "Transacción completada exitosamente",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
