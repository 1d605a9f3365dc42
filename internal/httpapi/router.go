package httpapi

import (
	"net/http"
	"time"

	"github.com/fjod/go_cinema/internal/repository"
	"github.com/fjod/go_cinema/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Sessions       *service.SessionService
	Carts          *service.CartService
	Catalog        *service.CatalogService
	Checkout       *service.CheckoutService
	Receipts       repository.ReceiptRepository
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	authHandler := NewAuthHandler(cfg.Sessions)
	cartHandler := NewCartHandler(cfg.Carts, cfg.Catalog, cfg.RequestTimeout)
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(cfg.Checkout)
	ordersHandler := NewOrdersHandler(cfg.Receipts, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(cfg.Sessions))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/google", authHandler.LoginGoogle)
			r.Post("/guest", authHandler.LoginGuest)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		r.Get("/premieres", catalogHandler.Premieres)
		r.Get("/candystore", catalogHandler.CandyStore)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Post("/items/{productID}/decrement", cartHandler.DecrementItem)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Submit)
		r.Get("/orders/{transactionID}", ordersHandler.GetReceipt)
	})

	return r
}
