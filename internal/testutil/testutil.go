// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aviranmz/thedude/internal/db"
	"github.com/aviranmz/thedude/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Tests that call this are skipped unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM interactions")
	pool.Exec(ctx, "DELETE FROM user_preferences")
	pool.Exec(ctx, "DELETE FROM search_logs")
	pool.Exec(ctx, "DELETE FROM affiliate_templates")
	pool.Exec(ctx, "DELETE FROM redirects")
}

// CreateTestRedirect inserts a redirect and returns its token.
func CreateTestRedirect(t *testing.T, database *db.DB, category models.Category, maxClicks int, expiresAt *time.Time) string {
	t.Helper()
	ctx := context.Background()

	var maxPtr *int
	if maxClicks > 0 {
		maxPtr = &maxClicks
	}
	record := &models.Redirect{
		Token:       uuid.NewString(),
		OriginalURL: "https://partner.example/deal",
		Type:        category,
		MaxClicks:   maxPtr,
		ExpiresAt:   expiresAt,
	}
	if err := database.CreateRedirect(ctx, record); err != nil {
		t.Fatalf("failed to create test redirect: %v", err)
	}

	return record.Token
}

// CreateTestAffiliate inserts an affiliate template for a category.
func CreateTestAffiliate(t *testing.T, database *db.DB, provider string, category models.Category, priority int) {
	t.Helper()
	ctx := context.Background()

	cfg := &models.AffiliateConfig{
		ProviderName: provider,
		Type:         category,
		Priority:     priority,
		TemplateURL:  "https://" + provider + ".example/deal?to={destination}",
		Enabled:      true,
	}
	if err := database.CreateAffiliate(ctx, cfg); err != nil {
		t.Fatalf("failed to create test affiliate: %v", err)
	}
}
