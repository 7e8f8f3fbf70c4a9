package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aviranmz/thedude/internal/models"
)

const airaloBase = "https://www.airalo.com"

// ESIMAdapter rewrites the Airalo affiliate template into a country-specific
// storefront link, e.g. https://www.airalo.com/france-esim?irclickid=...
type ESIMAdapter struct{}

func NewESIMAdapter() *ESIMAdapter {
	return &ESIMAdapter{}
}

func (a *ESIMAdapter) Search(_ context.Context, q models.Query, cfg models.AffiliateConfig) ([]models.SearchResult, error) {
	if cfg.TemplateURL == "" {
		return nil, fmt.Errorf("affiliate %s has no URL template", cfg.ProviderName)
	}
	if q.Country == "" {
		return nil, fmt.Errorf("esim search requires a destination country")
	}

	slug := strings.ToLower(strings.ReplaceAll(q.Country, " ", "-"))
	link := strings.Replace(cfg.TemplateURL, airaloBase, airaloBase+"/"+slug+"-esim", 1)

	return []models.SearchResult{{
		Title: fmt.Sprintf("eSIM for %s", q.Country),
		ESIM: &models.ESIMDetails{
			Country: q.Country,
		},
		AffiliateLink: link,
	}}, nil
}
