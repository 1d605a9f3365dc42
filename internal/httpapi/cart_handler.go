package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	carts   *service.CartService
	catalog *service.CatalogService
	timeout time.Duration
}

func NewCartHandler(carts *service.CartService, catalog *service.CatalogService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

// CartResponseDTO carries the lines plus the derived totals the views need.
type CartResponseDTO struct {
	Lines     []domain.CartLine `json:"lines"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func cartResponse(cart *domain.Cart) CartResponseDTO {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponseDTO{
		Lines:     lines,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	cart, err := h.carts.GetCart(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// Products come from the catalog, never from the request body.
	product, found, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "could not load catalog")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "product_not_found", "unknown product id")
		return
	}

	if err := h.carts.AddItem(ctx, sessionID, *product); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_update_failed", "could not add item")
		return
	}

	h.respondWithCart(ctx, w, sessionID, http.StatusCreated)
}

func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := h.carts.DecrementItem(ctx, sessionID, productID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_update_failed", "could not update item")
		return
	}

	h.respondWithCart(ctx, w, sessionID, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := h.carts.RemoveItem(ctx, sessionID, productID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_update_failed", "could not remove item")
		return
	}

	h.respondWithCart(ctx, w, sessionID, http.StatusOK)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := h.carts.ClearCart(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_update_failed", "could not clear cart")
		return
	}

	h.respondWithCart(ctx, w, sessionID, http.StatusOK)
}

func (h *CartHandler) respondWithCart(ctx context.Context, w http.ResponseWriter, sessionID string, status int) {
	cart, err := h.carts.GetCart(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}
	respondJSON(w, status, cartResponse(cart))
}
