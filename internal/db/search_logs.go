package db

import (
	"context"

	"github.com/aviranmz/thedude/internal/models"
)

// LogSearch records an inbound search for analytics. Callers fire this
// best-effort; a failed insert only costs the log line.
func (d *DB) LogSearch(ctx context.Context, userID, channel string, category models.Category, query models.Query) error {
	if userID == "" {
		userID = "anonymous"
	}
	if channel == "" {
		channel = "NA"
	}

	sql := `
		INSERT INTO search_logs (user_id, channel, type, query)
		VALUES ($1, $2, $3, $4)
	`
	_, err := d.Pool.Exec(ctx, sql, userID, channel, "search_"+category.String(), query)
	return err
}
