package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aviranmz/thedude/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks database connectivity.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevAffiliates inserts affiliate templates for development. Skips
// templates that already exist.
func (d *DB) SeedDevAffiliates(ctx context.Context) error {
	templates := []struct {
		provider string
		category string
		priority int
		url      string
		variant  string
	}{
		{"travelpayouts", "flight", 1, "", "v1"},
		{"hotellook", "hotel", 1, "https://www.hotellook.com/hotels/{hotel_id}?marker=615157&checkIn={checkin}&checkOut={checkout}&adults={adults}", ""},
		{"rentalcars", "car", 1, "https://www.rentalcars.com/search?pickup={pickup}&dropoff={dropoff}&date={date}", ""},
		{"worldnomads", "insurance", 1, "https://www.worldnomads.com/travel-insurance/quote?destination={destination}&start={start}&end={end}", ""},
		{"airalo", "esim", 1, "https://www.airalo.com/?irclickid=dev", ""},
	}

	query := `
		INSERT INTO affiliate_templates (provider_name, type, priority, template_url, provider_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider_name, type) DO NOTHING
	`

	for _, t := range templates {
		if _, err := d.Pool.Exec(ctx, query, t.provider, t.category, t.priority, t.url, t.variant); err != nil {
			return fmt.Errorf("failed to seed affiliate %s: %w", t.provider, err)
		}
	}

	return nil
}
