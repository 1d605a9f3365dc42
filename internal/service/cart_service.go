package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cinema/internal/cache"
	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	repo   repository.CartRepository
	cache  cache.CartCache
	logger *zap.Logger
	sfg    singleflight.Group // Prevents cache stampede

	mu    sync.Mutex
	locks map[string]*sync.Mutex // serializes mutations per user
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, logger *zap.Logger) *CartService {
	return &CartService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex guarding one user's cart mutations. Add and
// decrement both read line state they are about to write, so concurrent
// writers for the same user must not interleave: unserialized adds of a
// new product can produce duplicate lines, and unserialized decrements
// lose updates.
func (s *CartService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// GetCart returns the user's cart, reading through the cache. A user
// without a cart gets an empty one, never an error.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cache get error", zap.Error(err)) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			return &domain.Cart{
				UserID:    userID,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet // err from repo is not cache miss, return it
		}

		// Fill the cache before returning: a detached fill could land
		// after a later invalidation and pin a stale cart for the TTL.
		if errSet := s.cache.Set(ctx, userID, cart); errSet != nil {
			s.logger.Warn("cache set error", zap.Error(errSet))
		}

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem puts one unit of the product in the cart: an existing line is
// bumped by one, otherwise a new line with quantity 1 appears.
func (s *CartService) AddItem(ctx context.Context, userID string, product domain.Product) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	errAdd := s.repo.AddProduct(ctx, userID, product)
	if errAdd != nil {
		s.logger.Error("repo add product error", zap.Error(errAdd))
		return errAdd
	}

	s.invalidateCache(userID)
	return nil
}

// DecrementItem lowers a line by one unit, removing the line when its
// quantity was 1. A missing line or cart is a silent no-op.
func (s *CartService) DecrementItem(ctx context.Context, userID, productID string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Error("repo get cart error", zap.Error(err))
		return err
	}

	line, ok := cart.Line(productID)
	if !ok {
		return nil
	}

	if line.Quantity <= 1 {
		err = s.repo.RemoveLine(ctx, userID, productID)
	} else {
		err = s.repo.SetLineQuantity(ctx, userID, productID, line.Quantity-1)
	}
	if errors.Is(err, repository.ErrCartNotFound) || errors.Is(err, repository.ErrLineNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Error("repo decrement line error", zap.Error(err))
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// RemoveItem deletes the line unconditionally; absent lines are a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	errRemove := s.repo.RemoveLine(ctx, userID, productID)
	if errors.Is(errRemove, repository.ErrCartNotFound) {
		return nil
	}
	if errRemove != nil {
		s.logger.Error("repo remove line error", zap.Error(errRemove))
		return errRemove
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	errDelete := s.repo.DeleteCart(ctx, userID)
	if errors.Is(errDelete, repository.ErrCartNotFound) {
		return nil
	}
	if errDelete != nil {
		s.logger.Error("repo delete cart error", zap.Error(errDelete))
		return errDelete
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID)
	if errInvalidate != nil {
		s.logger.Warn("cache invalidate error", zap.Error(errInvalidate))
	}
}
