package httpapi

import (
	"net/http"
	"testing"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCheckoutRequest() CheckoutRequestDTO {
	return CheckoutRequestDTO{
		CardNumber:     "4111111111111111",
		ExpirationDate: "12/28",
		CVV:            "123",
		Email:          "ana@example.com",
		Name:           "Ana Torres",
		DocumentType:   "DNI",
		DocumentNumber: "45871236",
	}
}

func approvedResult() *domain.PaymentResult {
	return &domain.PaymentResult{
		TransactionResponse: domain.TransactionResponse{
			TransactionID: "TXN-001",
			State:         domain.PaymentStateApproved,
			OperationDate: "2026-08-30T10:00:00Z",
		},
	}
}

func fillCart(t *testing.T, tr *testRouter, session *http.Cookie) {
	t.Helper()
	rec := doRequest(t, tr.router, http.MethodPost, "/api/cart/items",
		AddItemRequestDTO{ProductID: "c1"}, session)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCheckout_RequiresSession(t *testing.T) {
	tr := newTestRouter()

	rec := doRequest(t, tr.router, http.MethodPost, "/api/checkout", validCheckoutRequest(), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckout_Success(t *testing.T) {
	tr := newTestRouter()
	tr.gateway.result = approvedResult()
	tr.completer.result = &domain.CompletionResult{Code: "0"}

	session := loginGuest(t, tr.router)
	fillCart(t, tr, session)

	rec := doRequest(t, tr.router, http.MethodPost, "/api/checkout", validCheckoutRequest(), session)

	require.Equal(t, http.StatusOK, rec.Code)
	confirmation := decodeBody[domain.Confirmation](t, rec)
	assert.Equal(t, "TXN-001", confirmation.TransactionID)
	assert.InDelta(t, 22.90, confirmation.Total, 0.001)

	// Cart is emptied once and receipt archived.
	cartRec := doRequest(t, tr.router, http.MethodGet, "/api/cart", nil, session)
	require.Equal(t, http.StatusOK, cartRec.Code)
	assert.Empty(t, decodeBody[CartResponseDTO](t, cartRec).Lines)
	assert.Len(t, tr.receipts.saved, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	tr := newTestRouter()
	session := loginGuest(t, tr.router)

	rec := doRequest(t, tr.router, http.MethodPost, "/api/checkout", validCheckoutRequest(), session)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "empty_cart", decodeBody[ErrorResponse](t, rec).Code)
}

func TestCheckout_ValidationFailure(t *testing.T) {
	tr := newTestRouter()
	session := loginGuest(t, tr.router)
	fillCart(t, tr, session)

	req := validCheckoutRequest()
	req.CardNumber = "1234"
	req.Email = "no-arroba"

	rec := doRequest(t, tr.router, http.MethodPost, "/api/checkout", req, session)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Contains(t, body.Fields, "cardNumber")
	assert.Contains(t, body.Fields, "email")
}

func TestCheckout_Declined(t *testing.T) {
	tr := newTestRouter()
	tr.gateway.result = &domain.PaymentResult{
		TransactionResponse: domain.TransactionResponse{
			TransactionID: "TXN-002",
			State:         domain.PaymentStateDeclined,
		},
	}

	session := loginGuest(t, tr.router)
	fillCart(t, tr, session)

	rec := doRequest(t, tr.router, http.MethodPost, "/api/checkout", validCheckoutRequest(), session)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	// The cart survives a declined payment.
	cartRec := doRequest(t, tr.router, http.MethodGet, "/api/cart", nil, session)
	assert.Len(t, decodeBody[CartResponseDTO](t, cartRec).Lines, 1)
}

func TestCheckout_CompletionFailure(t *testing.T) {
	tr := newTestRouter()
	tr.gateway.result = approvedResult()
	tr.completer.result = &domain.CompletionResult{Code: "1", Message: "datos incompletos"}

	session := loginGuest(t, tr.router)
	fillCart(t, tr, session)

	rec := doRequest(t, tr.router, http.MethodPost, "/api/checkout", validCheckoutRequest(), session)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "completion_failed", decodeBody[ErrorResponse](t, rec).Code)
}

func TestCheckout_GatewayError(t *testing.T) {
	tr := newTestRouter()
	tr.gateway.err = assert.AnError

	session := loginGuest(t, tr.router)
	fillCart(t, tr, session)

	rec := doRequest(t, tr.router, http.MethodPost, "/api/checkout", validCheckoutRequest(), session)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "checkout_failed", decodeBody[ErrorResponse](t, rec).Code)
}
