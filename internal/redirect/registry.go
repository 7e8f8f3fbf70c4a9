// Package redirect implements the tracked-link registry: it issues opaque
// tokens for outbound affiliate URLs and resolves them back, enforcing expiry
// and click quotas.
package redirect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/analytics"
	"github.com/aviranmz/thedude/internal/clock"
	"github.com/aviranmz/thedude/internal/db"
	"github.com/aviranmz/thedude/internal/models"
)

// Registry errors. Store classification errors pass through from the db
// package; ErrStoreUnavailable wraps everything else so callers can degrade.
var (
	ErrNotFound         = db.ErrRedirectNotFound
	ErrExpired          = db.ErrRedirectExpired
	ErrLimitReached     = db.ErrClickLimitReached
	ErrStoreUnavailable = errors.New("redirect store unavailable")
)

// issueRetries bounds token regeneration on the (practically impossible)
// collision of two random UUIDs.
const issueRetries = 3

// Store is the persistence surface the registry needs.
type Store interface {
	CreateRedirect(ctx context.Context, r *models.Redirect) error
	ConsumeRedirect(ctx context.Context, token string, now time.Time) (string, models.Category, error)
}

// Registry issues and resolves redirect tokens.
type Registry struct {
	store   Store
	sink    analytics.Sink
	clock   clock.Clock
	baseURL string
	logger  zerolog.Logger
}

// NewRegistry creates a registry. baseURL is the public origin redirect URLs
// are built on, without a trailing slash.
func NewRegistry(store Store, sink analytics.Sink, clk clock.Clock, baseURL string, logger zerolog.Logger) *Registry {
	return &Registry{
		store:   store,
		sink:    sink,
		clock:   clk,
		baseURL: baseURL,
		logger:  logger,
	}
}

// IssueRequest describes one redirect to mint.
type IssueRequest struct {
	OriginalURL string
	Type        models.Category
	Metadata    map[string]any
	ExpiresIn   time.Duration // zero means no expiry
	MaxClicks   int           // zero means unlimited
}

// Issued is the minted redirect handed back to the caller.
type Issued struct {
	Token       string
	RedirectURL string
	ExpiresAt   *time.Time
}

// Issue mints a token for the given URL and persists the redirect record.
// On a store failure the error wraps ErrStoreUnavailable; callers in the
// search path log it and return their results without a tracked link rather
// than failing the response.
func (r *Registry) Issue(ctx context.Context, req IssueRequest) (*Issued, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("invalid redirect category %q", req.Type)
	}

	var expiresAt *time.Time
	if req.ExpiresIn > 0 {
		t := r.clock.Now().Add(req.ExpiresIn)
		expiresAt = &t
	}

	var maxClicks *int
	if req.MaxClicks > 0 {
		maxClicks = &req.MaxClicks
	}

	var lastErr error
	for attempt := 0; attempt < issueRetries; attempt++ {
		record := &models.Redirect{
			Token:       uuid.NewString(),
			OriginalURL: req.OriginalURL,
			Type:        req.Type,
			Metadata:    req.Metadata,
			MaxClicks:   maxClicks,
			ExpiresAt:   expiresAt,
		}

		err := r.store.CreateRedirect(ctx, record)
		if err == nil {
			return &Issued{
				Token:       record.Token,
				RedirectURL: r.RedirectURL(record.Token),
				ExpiresAt:   expiresAt,
			}, nil
		}
		if errors.Is(err, db.ErrDuplicateToken) {
			r.logger.Warn().Str("type", req.Type.String()).Msg("redirect token collision, regenerating")
			lastErr = err
			continue
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, lastErr)
}

// RedirectURL builds the public URL for a token.
func (r *Registry) RedirectURL(token string) string {
	return r.baseURL + "/r/" + token
}

// Visitor identifies the client behind a resolution, for the audit event.
type Visitor struct {
	IP        string
	UserAgent string
}

// Resolve claims one click on the token and returns the destination URL.
// Returns ErrNotFound, ErrExpired or ErrLimitReached on a dead token. The
// click is accounted atomically in the store, so concurrent resolvers never
// overshoot the quota. The audit event is emitted off the request path.
func (r *Registry) Resolve(ctx context.Context, token string, visitor Visitor) (string, error) {
	now := r.clock.Now()

	destination, category, err := r.store.ConsumeRedirect(ctx, token, now)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired), errors.Is(err, ErrLimitReached):
			return "", err
		default:
			return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
	}

	event := analytics.ClickEvent{
		Token:     token,
		Type:      category,
		IP:        visitor.IP,
		UserAgent: visitor.UserAgent,
		Timestamp: now,
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.sink.EmitClick(emitCtx, event); err != nil {
			r.logger.Warn().Err(err).Str("token", token).Msg("click event emission failed")
		}
	}()

	return destination, nil
}
