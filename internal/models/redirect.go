package models

import (
	"time"

	"github.com/google/uuid"
)

// Redirect is a short-lived tracked link. The token stands in for the real
// affiliate URL in everything we hand out; resolution enforces expiry and the
// click quota. Analytics consumers read this table directly, so the persisted
// shape (column names below) is a stable contract.
type Redirect struct {
	ID          uuid.UUID      `json:"id"`
	Token       string         `json:"token"`
	OriginalURL string         `json:"original_url"`
	Type        Category       `json:"type"`
	Metadata    map[string]any `json:"metadata"`
	Clicks      int64          `json:"clicks"`
	MaxClicks   *int           `json:"max_clicks"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Expired reports whether the redirect has passed its expiry at the given time.
func (r *Redirect) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// Exhausted reports whether the click quota has been used up.
func (r *Redirect) Exhausted() bool {
	return r.MaxClicks != nil && r.Clicks >= int64(*r.MaxClicks)
}
