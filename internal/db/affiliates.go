package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aviranmz/thedude/internal/models"
)

const affiliateColumns = `id, provider_name, type, priority, template_url, api_key, provider_url, enabled, created_at`

var ErrDuplicateAffiliate = errors.New("affiliate template already exists")

func scanAffiliates(rows pgx.Rows) ([]models.AffiliateConfig, error) {
	defer rows.Close()

	var configs []models.AffiliateConfig
	for rows.Next() {
		var c models.AffiliateConfig
		if err := rows.Scan(
			&c.ID,
			&c.ProviderName,
			&c.Type,
			&c.Priority,
			&c.TemplateURL,
			&c.APIKey,
			&c.ProviderURL,
			&c.Enabled,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}

	return configs, rows.Err()
}

// GetAffiliatesByCategory retrieves enabled affiliate templates for a category
// in fallback order: ascending priority, creation order breaking ties.
func (d *DB) GetAffiliatesByCategory(ctx context.Context, category models.Category) ([]models.AffiliateConfig, error) {
	query := `
		SELECT ` + affiliateColumns + `
		FROM affiliate_templates
		WHERE type = $1 AND enabled
		ORDER BY priority ASC, created_at ASC
	`

	rows, err := d.Pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	return scanAffiliates(rows)
}

// CreateAffiliate inserts a new affiliate template.
func (d *DB) CreateAffiliate(ctx context.Context, c *models.AffiliateConfig) error {
	query := `
		INSERT INTO affiliate_templates (provider_name, type, priority, template_url, api_key, provider_url, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := d.Pool.QueryRow(ctx, query,
		c.ProviderName,
		c.Type,
		c.Priority,
		c.TemplateURL,
		c.APIKey,
		c.ProviderURL,
		c.Enabled,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAffiliate
		}
		return err
	}

	return nil
}

// SetAffiliateEnabled toggles an affiliate template in or out of the fallback
// rotation.
func (d *DB) SetAffiliateEnabled(ctx context.Context, providerName string, category models.Category, enabled bool) error {
	query := `UPDATE affiliate_templates SET enabled = $1 WHERE provider_name = $2 AND type = $3`
	result, err := d.Pool.Exec(ctx, query, enabled, providerName, category)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrAffiliateNotFound
	}
	return nil
}
