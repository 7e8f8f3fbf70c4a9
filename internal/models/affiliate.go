package models

import (
	"time"

	"github.com/google/uuid"
)

// AffiliateConfig describes how to reach one partner for one category.
// Lower priority is tried first; ties fall back to creation order so the
// fallback sequence is deterministic.
type AffiliateConfig struct {
	ID           uuid.UUID `json:"id"`
	ProviderName string    `json:"provider_name"`
	Type         Category  `json:"type"`
	Priority     int       `json:"priority"`
	TemplateURL  string    `json:"template_url"`
	APIKey       string    `json:"api_key,omitempty"`
	ProviderURL  string    `json:"provider_url"` // opaque variant selector, e.g. travelpayouts "v1"/"v2"
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}
