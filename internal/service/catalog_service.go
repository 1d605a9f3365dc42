package service

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cinema/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogSource is the external catalog collaborator as this service
// consumes it.
type CatalogSource interface {
	Premieres(ctx context.Context) ([]domain.Premiere, error)
	CandyProducts(ctx context.Context) ([]domain.Product, error)
}

// CatalogService memoizes catalog reads. Listings are immutable once
// fetched, so a short TTL only bounds staleness of the upstream data.
type CatalogService struct {
	source CatalogSource
	ttl    time.Duration
	sfg    singleflight.Group

	mu          sync.RWMutex
	premieres   []domain.Premiere
	premieresAt time.Time
	products    []domain.Product
	productsAt  time.Time
}

func NewCatalogService(source CatalogSource) *CatalogService {
	return &CatalogService{
		source: source,
		ttl:    5 * time.Minute,
	}
}

func (s *CatalogService) Premieres(ctx context.Context) ([]domain.Premiere, error) {
	s.mu.RLock()
	if s.premieres != nil && time.Since(s.premieresAt) < s.ttl {
		cached := s.premieres
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.sfg.Do("premieres", func() (interface{}, error) {
		premieres, err := s.source.Premieres(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.premieres = premieres
		s.premieresAt = time.Now()
		s.mu.Unlock()

		return premieres, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.Premiere), nil
}

func (s *CatalogService) CandyProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	if s.products != nil && time.Since(s.productsAt) < s.ttl {
		cached := s.products
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.sfg.Do("candystore", func() (interface{}, error) {
		products, err := s.source.CandyProducts(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.products = products
		s.productsAt = time.Now()
		s.mu.Unlock()

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

// Product looks up one candy product by id, for cart additions.
func (s *CatalogService) Product(ctx context.Context, productID string) (*domain.Product, bool, error) {
	products, err := s.CandyProducts(ctx)
	if err != nil {
		return nil, false, err
	}

	for i := range products {
		if products[i].ID == productID {
			return &products[i], true, nil
		}
	}
	return nil, false, nil
}
