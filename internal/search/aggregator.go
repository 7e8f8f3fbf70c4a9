// Package search implements the affiliate fallback aggregator: providers for a
// category are tried in priority order and the first non-empty result set wins.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/models"
	"github.com/aviranmz/thedude/internal/redirect"
)

// ErrNoAffiliateConfigured is returned when a category has no enabled
// affiliate templates to try.
var ErrNoAffiliateConfigured = errors.New("no affiliate configured for category")

// Adapter performs a provider-specific search. Implementations live in
// internal/providers; the aggregator only cares about the common shape.
type Adapter interface {
	Search(ctx context.Context, query models.Query, cfg models.AffiliateConfig) ([]models.SearchResult, error)
}

// ConfigSource supplies affiliate templates for a category in fallback order.
type ConfigSource interface {
	AffiliatesFor(ctx context.Context, category models.Category) ([]models.AffiliateConfig, error)
}

// Issuer mints tracked redirect links for winning results.
type Issuer interface {
	Issue(ctx context.Context, req redirect.IssueRequest) (*redirect.Issued, error)
}

// Options tunes aggregator behavior.
type Options struct {
	RedirectTTL time.Duration // expiry applied to minted redirects
	MaxClicks   int           // click quota applied to minted redirects
	Timeout     time.Duration // per-provider search budget
}

// Aggregator runs priority-ordered fallback across affiliate providers.
type Aggregator struct {
	configs  ConfigSource
	adapters map[models.Category]Adapter
	issuer   Issuer
	opts     Options
	logger   zerolog.Logger
}

// NewAggregator wires a fallback aggregator. The adapter map is fixed at
// startup; categories without an adapter fail fast at search time.
func NewAggregator(configs ConfigSource, adapters map[models.Category]Adapter, issuer Issuer, opts Options, logger zerolog.Logger) *Aggregator {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Aggregator{
		configs:  configs,
		adapters: adapters,
		issuer:   issuer,
		opts:     opts,
		logger:   logger,
	}
}

// SearchWithFallback tries the category's providers in ascending priority and
// returns the first non-empty result set, each result annotated with a tracked
// redirect link and the winning provider's name. Provider errors and empty
// results are logged and skipped, never surfaced. An empty return with a nil
// error means every provider came up dry - that is a valid outcome, not a
// failure. ErrNoAffiliateConfigured is returned when there is nothing to try.
func (a *Aggregator) SearchWithFallback(ctx context.Context, category models.Category, query models.Query) ([]models.SearchResult, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("invalid category %q", category)
	}

	adapter, ok := a.adapters[category]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for category %q", category)
	}

	configs, err := a.configs.AffiliatesFor(ctx, category)
	if err != nil {
		// A config-store outage looks like an empty affiliate list to the
		// caller; the search response degrades instead of failing.
		a.logger.Error().Err(err).Str("category", category.String()).Msg("failed to load affiliate configs")
		return nil, ErrNoAffiliateConfigured
	}
	if len(configs) == 0 {
		return nil, ErrNoAffiliateConfigured
	}

	for _, cfg := range configs {
		results := a.tryProvider(ctx, adapter, query, cfg)
		if len(results) == 0 {
			continue
		}

		a.annotate(ctx, category, cfg, results)
		return results, nil
	}

	return nil, nil
}

// tryProvider runs one adapter under its own timeout. Errors and panics stop
// at this boundary: either one is treated exactly like an empty result.
func (a *Aggregator) tryProvider(ctx context.Context, adapter Adapter, query models.Query, cfg models.AffiliateConfig) (results []models.SearchResult) {
	providerCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().
				Str("provider", cfg.ProviderName).
				Any("panic", r).
				Msg("provider adapter panicked")
			results = nil
		}
	}()

	results, err := adapter.Search(providerCtx, query, cfg)
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("provider", cfg.ProviderName).
			Str("category", cfg.Type.String()).
			Msg("provider search failed, falling through")
		return nil
	}
	if len(results) == 0 {
		a.logger.Debug().
			Str("provider", cfg.ProviderName).
			Str("category", cfg.Type.String()).
			Msg("provider returned no results, falling through")
	}
	return results
}

// annotate mints a redirect for every result and stamps the provider name.
// A registry failure degrades the individual result to its raw affiliate link.
func (a *Aggregator) annotate(ctx context.Context, category models.Category, cfg models.AffiliateConfig, results []models.SearchResult) {
	for i := range results {
		results[i].AffiliateProvider = cfg.ProviderName

		issued, err := a.issuer.Issue(ctx, redirect.IssueRequest{
			OriginalURL: results[i].AffiliateLink,
			Type:        category,
			Metadata:    results[i].Metadata(),
			ExpiresIn:   a.opts.RedirectTTL,
			MaxClicks:   a.opts.MaxClicks,
		})
		if err != nil {
			a.logger.Error().
				Err(err).
				Str("provider", cfg.ProviderName).
				Msg("redirect issue failed, returning result without tracked link")
			continue
		}
		results[i].RedirectURL = issued.RedirectURL
	}
}
