package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_cinema/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisCartCache(client *redis.Client) *RedisCartCache {
	return &RedisCartCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCartCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err2 := json.Unmarshal(data, &cart); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err2)
	}

	return &cart, nil
}

func (r RedisCartCache) Set(ctx context.Context, userID string, cart *domain.Cart) error {
	jsonCart, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, cartKey(userID), string(jsonCart), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisCartCache) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// RedisSessionStore persists the active user per session id. Sessions
// survive restarts and expire after sessionTTL of inactivity.
type RedisSessionStore struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		client:     client,
		sessionTTL: 24 * time.Hour,
	}
}

func (r RedisSessionStore) Get(ctx context.Context, sessionID string) (*domain.User, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var user domain.User
	if err2 := json.Unmarshal(data, &user); err2 != nil {
		return nil, fmt.Errorf("unmarshal user failed: %w", err2)
	}

	return &user, nil
}

func (r RedisSessionStore) Set(ctx context.Context, sessionID string, user *domain.User) error {
	jsonUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user failed: %w", err)
	}

	if ret := r.client.Set(ctx, sessionKey(sessionID), string(jsonUser), r.sessionTTL); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
