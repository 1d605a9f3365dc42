package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cinema/internal/client"
	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
	timeout time.Duration
}

func NewCatalogHandler(catalog *service.CatalogService, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type PremieresResponseDTO struct {
	Data []domain.Premiere `json:"data"`
}

type CandyStoreResponseDTO struct {
	Data []domain.Product `json:"data"`
}

func (h *CatalogHandler) Premieres(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	premieres, err := h.catalog.Premieres(ctx)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	if premieres == nil {
		premieres = []domain.Premiere{}
	}

	respondJSON(w, http.StatusOK, PremieresResponseDTO{Data: premieres})
}

func (h *CatalogHandler) CandyStore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.CandyProducts(ctx)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	category := domain.Category(r.URL.Query().Get("category"))
	filtered := domain.FilterByCategory(products, category)
	if filtered == nil {
		filtered = []domain.Product{}
	}

	respondJSON(w, http.StatusOK, CandyStoreResponseDTO{Data: filtered})
}

func handleCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, client.ErrCatalogUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog service is unavailable")
		return
	}
	respondError(w, http.StatusBadGateway, "catalog_error", "unexpected catalog response")
}
