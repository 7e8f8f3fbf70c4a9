package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aviranmz/thedude/internal/models"
)

// redirectColumns is the standard column list for redirect queries.
const redirectColumns = `id, token, original_url, type, metadata, clicks, max_clicks, expires_at, created_at`

// scanRedirect scans a row into a Redirect struct.
func scanRedirect(row pgx.Row) (*models.Redirect, error) {
	var r models.Redirect
	err := row.Scan(
		&r.ID,
		&r.Token,
		&r.OriginalURL,
		&r.Type,
		&r.Metadata,
		&r.Clicks,
		&r.MaxClicks,
		&r.ExpiresAt,
		&r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRedirectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRedirect persists a new redirect record. The caller supplies the token;
// clicks always start at zero. A token collision surfaces as ErrDuplicateToken
// so the registry can retry with a fresh token.
func (d *DB) CreateRedirect(ctx context.Context, r *models.Redirect) error {
	query := `
		INSERT INTO redirects (token, original_url, type, metadata, max_clicks, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, clicks, created_at
	`

	metadata := r.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	err := d.Pool.QueryRow(ctx, query,
		r.Token,
		r.OriginalURL,
		r.Type,
		metadata,
		r.MaxClicks,
		r.ExpiresAt,
	).Scan(&r.ID, &r.Clicks, &r.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateToken
		}
		return err
	}

	return nil
}

// GetRedirectByToken retrieves a redirect by its token.
func (d *DB) GetRedirectByToken(ctx context.Context, token string) (*models.Redirect, error) {
	query := `SELECT ` + redirectColumns + ` FROM redirects WHERE token = $1`
	return scanRedirect(d.Pool.QueryRow(ctx, query, token))
}

// ConsumeRedirect atomically claims one click on a redirect and returns the
// destination URL and category. The guard conditions live inside the UPDATE so
// concurrent resolvers can never push clicks past max_clicks. A miss is
// classified with a follow-up read into ErrRedirectNotFound,
// ErrRedirectExpired or ErrClickLimitReached.
func (d *DB) ConsumeRedirect(ctx context.Context, token string, now time.Time) (string, models.Category, error) {
	query := `
		UPDATE redirects
		SET clicks = clicks + 1
		WHERE token = $1
			AND (expires_at IS NULL OR expires_at >= $2)
			AND (max_clicks IS NULL OR clicks < max_clicks)
		RETURNING original_url, type
	`

	var url string
	var category models.Category
	err := d.Pool.QueryRow(ctx, query, token, now).Scan(&url, &category)
	if err == nil {
		return url, category, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", "", err
	}

	r, err := d.GetRedirectByToken(ctx, token)
	if err != nil {
		return "", "", err
	}
	if r.Expired(now) {
		return "", "", ErrRedirectExpired
	}
	if r.Exhausted() {
		return "", "", ErrClickLimitReached
	}
	// The record became claimable between the two statements; treat the
	// original miss as exhaustion rather than looping.
	return "", "", ErrClickLimitReached
}

// DeleteExpiredRedirects removes redirects whose expiry has passed by at least
// the grace period. Returns the number of rows removed.
func (d *DB) DeleteExpiredRedirects(ctx context.Context, now time.Time, grace time.Duration) (int64, error) {
	query := `DELETE FROM redirects WHERE expires_at IS NOT NULL AND expires_at < $1`
	result, err := d.Pool.Exec(ctx, query, now.Add(-grace))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// ClickTotal is an aggregated click count for one category, used by the
// metrics collector.
type ClickTotal struct {
	Type      models.Category
	Redirects int64
	Clicks    int64
}

// GetClickTotals returns redirect and click counts grouped by category.
func (d *DB) GetClickTotals(ctx context.Context) ([]ClickTotal, error) {
	query := `
		SELECT type, COUNT(*), COALESCE(SUM(clicks), 0)
		FROM redirects
		GROUP BY type
	`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []ClickTotal
	for rows.Next() {
		var t ClickTotal
		if err := rows.Scan(&t.Type, &t.Redirects, &t.Clicks); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}
