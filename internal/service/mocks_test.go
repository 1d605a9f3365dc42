package service

import (
	"context"
	"runtime"
	"sync"

	"github.com/fjod/go_cinema/internal/cache"
	"github.com/fjod/go_cinema/internal/client"
	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/repository"
)

// memoryCartRepository implements repository.CartRepository for testing
type memoryCartRepository struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	err   error
}

func newMemoryCartRepository() *memoryCartRepository {
	return &memoryCartRepository{carts: make(map[string]*domain.Cart)}
}

func (r *memoryCartRepository) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
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
	if r.err != nil {
		return r.err
	}
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
	if r.err != nil {
		return r.err
	}
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
	if r.err != nil {
		return r.err
	}
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
	if r.err != nil {
		return r.err
	}
	if _, ok := r.carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(r.carts, userID)
	return nil
}

// racyCartRepository mimics a document store's add path: it decides
// between increment and append from a snapshot of the lines, with a
// scheduling point before the write. Unserialized concurrent adds of the
// same new product can therefore append duplicate lines.
type racyCartRepository struct {
	memoryCartRepository
}

func newRacyCartRepository() *racyCartRepository {
	r := &racyCartRepository{}
	r.carts = make(map[string]*domain.Cart)
	return r
}

func (r *racyCartRepository) AddProduct(_ context.Context, userID string, product domain.Product) error {
	r.m.RLock()
	lineExists := false
	if cart, ok := r.carts[userID]; ok {
		for _, line := range cart.Lines {
			if line.Product.ID == product.ID {
				lineExists = true
				break
			}
		}
	}
	r.m.RUnlock()

	runtime.Gosched()

	r.m.Lock()
	defer r.m.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		r.carts[userID] = &domain.Cart{
			UserID: userID,
			Lines:  []domain.CartLine{{Product: product, Quantity: 1}},
		}
		return nil
	}
	if lineExists {
		for i := range cart.Lines {
			if cart.Lines[i].Product.ID == product.ID {
				cart.Lines[i].Quantity++
				break
			}
		}
		return nil
	}
	cart.Lines = append(cart.Lines, domain.CartLine{Product: product, Quantity: 1})
	return nil
}

// mockCartCache implements cache.CartCache for testing
type mockCartCache struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	err   error
}

func newMockCartCache() *mockCartCache {
	return &mockCartCache{carts: make(map[string]*domain.Cart)}
}

func (c *mockCartCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	cart, ok := c.carts[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return cart, nil
}

func (c *mockCartCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return c.err
	}
	c.carts[userID] = cart
	return nil
}

func (c *mockCartCache) Delete(_ context.Context, userID string) error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.carts, userID)
	return nil
}

// memorySessionStore implements cache.SessionStore for testing
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

// mockGateway implements PaymentGateway for testing
type mockGateway struct {
	result     *domain.PaymentResult
	err        error
	calls      int
	lastAmount float64
}

func (g *mockGateway) Charge(_ context.Context, _ domain.PaymentSubmission, amount float64) (*domain.PaymentResult, error) {
	g.calls++
	g.lastAmount = amount
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

// mockCompleter implements OrderCompleter for testing
type mockCompleter struct {
	result      *domain.CompletionResult
	err         error
	calls       int
	lastPayload client.CompletionPayload
}

func (c *mockCompleter) Complete(_ context.Context, payload client.CompletionPayload) (*domain.CompletionResult, error) {
	c.calls++
	c.lastPayload = payload
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

// mockReceipts implements repository.ReceiptRepository for testing
type mockReceipts struct {
	m       sync.Mutex
	saved   []domain.Confirmation
	saveErr error
}

func (r *mockReceipts) SaveReceipt(_ context.Context, _ string, confirmation domain.Confirmation) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, confirmation)
	return nil
}

func (r *mockReceipts) ReceiptByTransactionID(_ context.Context, transactionID string) (*domain.Confirmation, error) {
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.saved {
		if r.saved[i].TransactionID == transactionID {
			return &r.saved[i], nil
		}
	}
	return nil, repository.ErrReceiptNotFound
}

func (r *mockReceipts) Close() error {
	return nil
}

// mockCatalogSource implements CatalogSource for testing
type mockCatalogSource struct {
	m         sync.Mutex
	premieres []domain.Premiere
	products  []domain.Product
	err       error
	calls     int
}

func (s *mockCatalogSource) Premieres(context.Context) ([]domain.Premiere, error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.premieres, nil
}

func (s *mockCatalogSource) CandyProducts(context.Context) ([]domain.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}
