package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

// mapCacheRepo is an in-memory CacheRepository for tests.
type mapCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCacheRepo() *mapCacheRepo {
	return &mapCacheRepo{entries: map[string][]byte{}}
}

func (m *mapCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mapCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *mapCacheRepo) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}
