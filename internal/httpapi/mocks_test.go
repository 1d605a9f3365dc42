package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cinema/internal/cache"
	"github.com/fjod/go_cinema/internal/client"
	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/repository"
	"github.com/fjod/go_cinema/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// In-memory doubles for the stores the router's services depend on.

type memoryCartRepository struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
}

func newMemoryCartRepository() *memoryCartRepository {
	return &memoryCartRepository{carts: make(map[string]*domain.Cart)}
}

func (r *memoryCartRepository) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	copied := *cart
	copied.Lines = append([]domain.CartLine(nil), cart.Lines...)
	return &copied, nil
}

func (r *memoryCartRepository) AddProduct(_ context.Context, userID string, product domain.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		cart = &domain.Cart{UserID: userID}
		r.carts[userID] = cart
	}
	cart.AddProduct(product)
	return nil
}

func (r *memoryCartRepository) SetLineQuantity(_ context.Context, userID, productID string, quantity int) error {
	r.m.Lock()
	defer r.m.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return repository.ErrCartNotFound
	}
	for i := range cart.Lines {
		if cart.Lines[i].Product.ID == productID {
			cart.Lines[i].Quantity = quantity
			return nil
		}
	}
	return repository.ErrLineNotFound
}

func (r *memoryCartRepository) RemoveLine(_ context.Context, userID, productID string) error {
	r.m.Lock()
	defer r.m.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return repository.ErrCartNotFound
	}
	cart.Remove(productID)
	return nil
}

func (r *memoryCartRepository) DeleteCart(_ context.Context, userID string) error {
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(r.carts, userID)
	return nil
}

// nopCartCache always misses, so handler tests read the repository
// deterministically. Cache behavior has its own tests.
type nopCartCache struct{}

func (nopCartCache) Get(context.Context, string) (*domain.Cart, error) {
	return nil, cache.ErrCacheMiss
}

func (nopCartCache) Set(context.Context, string, *domain.Cart) error { return nil }

func (nopCartCache) Delete(context.Context, string) error { return nil }

type memorySessionStore struct {
	m     sync.RWMutex
	users map[string]domain.User
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{users: make(map[string]domain.User)}
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (*domain.User, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	user, ok := s.users[sessionID]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	return &user, nil
}

func (s *memorySessionStore) Set(_ context.Context, sessionID string, user *domain.User) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.users[sessionID] = *user
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.users, sessionID)
	return nil
}

type stubCatalogSource struct {
	premieres []domain.Premiere
	products  []domain.Product
	err       error
}

func (s *stubCatalogSource) Premieres(context.Context) ([]domain.Premiere, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.premieres, nil
}

func (s *stubCatalogSource) CandyProducts(context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type stubGateway struct {
	result *domain.PaymentResult
	err    error
}

func (g *stubGateway) Charge(context.Context, domain.PaymentSubmission, float64) (*domain.PaymentResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type stubCompleter struct {
	result *domain.CompletionResult
	err    error
}

func (c *stubCompleter) Complete(context.Context, client.CompletionPayload) (*domain.CompletionResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

type memoryReceipts struct {
	m     sync.Mutex
	saved []domain.Confirmation
}

func (r *memoryReceipts) SaveReceipt(_ context.Context, _ string, confirmation domain.Confirmation) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.saved = append(r.saved, confirmation)
	return nil
}

func (r *memoryReceipts) ReceiptByTransactionID(_ context.Context, transactionID string) (*domain.Confirmation, error) {
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.saved {
		if r.saved[i].TransactionID == transactionID {
			return &r.saved[i], nil
		}
	}
	return nil, repository.ErrReceiptNotFound
}

func (r *memoryReceipts) Close() error { return nil }

// testRouter wires a full router over in-memory stores and stubbed
// collaborators so handler tests exercise real routing and middleware.
type testRouter struct {
	router    *chi.Mux
	repo      *memoryCartRepository
	catalog   *stubCatalogSource
	gateway   *stubGateway
	completer *stubCompleter
	receipts  *memoryReceipts
}

func catalogFixture() *stubCatalogSource {
	return &stubCatalogSource{
		premieres: []domain.Premiere{
			{ID: "1", Title: "Deadpool & Wolverine", Genre: "Acción"},
		},
		products: []domain.Product{
			{ID: "c1", Name: "Combo Clásico", Price: 22.90, Category: domain.CategoryCombo},
			{ID: "c5", Name: "Gaseosa Grande", Price: 9.90, Category: domain.CategoryDrink},
		},
	}
}

func newTestRouter() *testRouter {
	logger := zap.NewNop()
	repo := newMemoryCartRepository()
	catalog := catalogFixture()
	gateway := &stubGateway{}
	completer := &stubCompleter{}
	receipts := &memoryReceipts{}

	carts := service.NewCartService(repo, nopCartCache{}, logger)
	sessions := service.NewSessionService(newMemorySessionStore(), carts, logger)
	catalogSvc := service.NewCatalogService(catalog)
	checkout := service.NewCheckoutService(
		carts,
		receipts,
		service.NewPaymentHandler(gateway, time.Second),
		service.NewCompletionHandler(completer, time.Second),
		logger,
	)

	router := NewRouter(RouterConfig{
		Sessions:       sessions,
		Carts:          carts,
		Catalog:        catalogSvc,
		Checkout:       checkout,
		Receipts:       receipts,
		Logger:         logger,
		RequestTimeout: 2 * time.Second,
	})

	return &testRouter{
		router:    router,
		repo:      repo,
		catalog:   catalog,
		gateway:   gateway,
		completer: completer,
		receipts:  receipts,
	}
}
