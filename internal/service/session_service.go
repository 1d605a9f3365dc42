package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cinema/internal/cache"
	"github.com/fjod/go_cinema/internal/domain"
	"go.uber.org/zap"
)

// SessionService owns the active user per session. Logout also clears the
// session's cart: an abandoned identity must not leave a purchasable cart
// behind.
type SessionService struct {
	sessions cache.SessionStore
	carts    *CartService
	logger   *zap.Logger
}

func NewSessionService(sessions cache.SessionStore, carts *CartService, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		carts:    carts,
		logger:   logger,
	}
}

func (s *SessionService) SetUser(ctx context.Context, sessionID string, user domain.User) error {
	if err := s.sessions.Set(ctx, sessionID, &user); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// LoginGuest signs the session in as the pass-through guest identity.
func (s *SessionService) LoginGuest(ctx context.Context, sessionID string) (domain.User, error) {
	guest := domain.GuestUser()
	if err := s.SetUser(ctx, sessionID, guest); err != nil {
		return domain.User{}, err
	}
	return guest, nil
}

// User returns the session's user, or cache.ErrSessionNotFound.
func (s *SessionService) User(ctx context.Context, sessionID string) (*domain.User, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *SessionService) IsAuthenticated(ctx context.Context, sessionID string) bool {
	_, err := s.sessions.Get(ctx, sessionID)
	return err == nil
}

// Logout drops the session and its cart.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, cache.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := s.carts.ClearCart(ctx, sessionID); err != nil {
		s.logger.Error("failed to clear cart on logout", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}

	return nil
}
