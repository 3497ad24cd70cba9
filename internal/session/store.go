package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialchef/dishcraft/internal/cache"
)

// ErrNotFound is returned when no state exists for a session.
var ErrNotFound = errors.New("session not found")

// Store holds one State per session ID. Put replaces the whole state.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Put(ctx context.Context, id string, state *State) error
}

// CacheStore persists sessions as JSON in a cache.Cache.
type CacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

var _ Store = (*CacheStore)(nil)

// NewCacheStore stores sessions in c, each expiring ttl after its last write.
func NewCacheStore(c cache.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) Get(ctx context.Context, id string) (*State, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	data, err := s.cache.Get(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("Discarding unreadable session", "error", err)
		return nil, ErrNotFound
	}
	return &state, nil
}

func (s *CacheStore) Put(ctx context.Context, id string, state *State) error {
	if id == "" {
		return errors.New("session id is required")
	}
	if state == nil {
		return s.cache.Delete(ctx, id)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.cache.Set(ctx, id, data, s.ttl)
}

// NewStore returns a Redis-backed store when redisURL is set and an
// in-process store otherwise. The returned close func releases the Redis
// connection.
func NewStore(ctx context.Context, redisURL string, ttl time.Duration) (Store, func() error, error) {
	if redisURL == "" {
		return NewCacheStore(cache.NewMemoryCache(), ttl), func() error { return nil }, nil
	}

	client, err := cache.NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	return NewCacheStore(cache.NewRedisCache(client, "session:"), ttl), client.Close, nil
}
