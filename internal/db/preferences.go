package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// GetUserPreferences loads stored preferences for a user. Unknown users get an
// empty map, not an error.
func (d *DB) GetUserPreferences(ctx context.Context, userID string) (map[string]any, error) {
	query := `SELECT prefs FROM user_preferences WHERE user_id = $1`

	var prefs map[string]any
	err := d.Pool.QueryRow(ctx, query, userID).Scan(&prefs)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// SaveUserPreferences merges updates into the stored preferences.
func (d *DB) SaveUserPreferences(ctx context.Context, userID string, updates map[string]any) error {
	query := `
		INSERT INTO user_preferences (user_id, prefs, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET prefs = user_preferences.prefs || EXCLUDED.prefs, updated_at = NOW()
	`
	_, err := d.Pool.Exec(ctx, query, userID, updates)
	return err
}

// LogInteraction records one side of an agent conversation.
func (d *DB) LogInteraction(ctx context.Context, userID, direction, channel, message string) error {
	if channel == "" {
		channel = "NA"
	}

	query := `
		INSERT INTO interactions (user_id, direction, channel, message)
		VALUES ($1, $2, $3, $4)
	`
	_, err := d.Pool.Exec(ctx, query, userID, direction, channel, message)
	return err
}
