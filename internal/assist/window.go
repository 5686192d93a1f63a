package assist

import (
	"context"
	"encoding/json"
	"time"

	"lawsite-backend/internal/cache"
)

// Window is the per caller throttle state. Times are unix seconds.
type Window struct {
	TS    []float64 `json:"ts"`
	Block float64   `json:"block"`
}

type WindowStore interface {
	Get(ctx context.Context, key string) (Window, bool, error)
	Set(ctx context.Context, key string, w Window, ttl time.Duration) error
}

// CacheWindowStore keeps windows as JSON in the shared cache.
type CacheWindowStore struct {
	cache cache.Cache
}

func NewCacheWindowStore(c cache.Cache) *CacheWindowStore {
	return &CacheWindowStore{cache: c}
}

func (s *CacheWindowStore) Get(ctx context.Context, key string) (Window, bool, error) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return Window{}, false, err
	}
	var w Window
	if err := json.Unmarshal(raw, &w); err != nil {
		return Window{}, false, err
	}
	return w, true, nil
}

func (s *CacheWindowStore) Set(ctx context.Context, key string, w Window, ttl time.Duration) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, ttl)
}
