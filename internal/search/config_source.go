package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/db"
	"github.com/aviranmz/thedude/internal/models"
)

// DBConfigSource loads affiliate templates straight from the store.
type DBConfigSource struct {
	db *db.DB
}

func NewDBConfigSource(database *db.DB) *DBConfigSource {
	return &DBConfigSource{db: database}
}

func (s *DBConfigSource) AffiliatesFor(ctx context.Context, category models.Category) ([]models.AffiliateConfig, error) {
	return s.db.GetAffiliatesByCategory(ctx, category)
}

// Cache is the subset of the fiber storage interface the config cache needs;
// satisfied by gofiber/storage/redis.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// CachedConfigSource layers a shared cache over another source. Affiliate
// templates change rarely, so a short TTL keeps the store off the hot search
// path. Cache failures fall through to the inner source.
type CachedConfigSource struct {
	inner  ConfigSource
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedConfigSource(inner ConfigSource, cache Cache, ttl time.Duration, logger zerolog.Logger) *CachedConfigSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedConfigSource{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (s *CachedConfigSource) AffiliatesFor(ctx context.Context, category models.Category) ([]models.AffiliateConfig, error) {
	key := "affiliates:" + category.String()

	if raw, err := s.cache.Get(key); err == nil && len(raw) > 0 {
		var configs []models.AffiliateConfig
		if err := json.Unmarshal(raw, &configs); err == nil {
			return configs, nil
		}
		s.logger.Warn().Str("key", key).Msg("discarding unreadable cached affiliate configs")
	}

	configs, err := s.inner.AffiliatesFor(ctx, category)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(configs); err == nil {
		if err := s.cache.Set(key, raw, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache affiliate configs")
		}
	}

	return configs, nil
}
