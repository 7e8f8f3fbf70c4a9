package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/models"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
	return nil
}

type countingSource struct {
	inner ConfigSource
	calls int
}

func (s *countingSource) AffiliatesFor(ctx context.Context, category models.Category) ([]models.AffiliateConfig, error) {
	s.calls++
	return s.inner.AffiliatesFor(ctx, category)
}

func TestCachedConfigSourceHitsStoreOnce(t *testing.T) {
	inner := &countingSource{inner: &staticConfigs{configs: []models.AffiliateConfig{
		cfg("hotellook", 1),
		cfg("booking", 2),
	}}}
	source := NewCachedConfigSource(inner, newMemCache(), time.Minute, zerolog.Nop())

	for i := 0; i < 3; i++ {
		configs, err := source.AffiliatesFor(context.Background(), models.CategoryHotel)
		if err != nil {
			t.Fatalf("AffiliatesFor failed: %v", err)
		}
		if len(configs) != 2 {
			t.Fatalf("got %d configs, want 2", len(configs))
		}
		if configs[0].ProviderName != "hotellook" {
			t.Errorf("priority order lost through cache: first = %q", configs[0].ProviderName)
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner source called %d times, want 1", inner.calls)
	}
}

func TestCachedConfigSourcePropagatesInnerError(t *testing.T) {
	inner := &staticConfigs{err: errors.New("db down")}
	source := NewCachedConfigSource(inner, newMemCache(), time.Minute, zerolog.Nop())

	if _, err := source.AffiliatesFor(context.Background(), models.CategoryCar); err == nil {
		t.Fatal("expected inner error to propagate on cache miss")
	}
}
