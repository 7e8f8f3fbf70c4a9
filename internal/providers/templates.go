package providers

import (
	"context"
	"fmt"

	"github.com/aviranmz/thedude/internal/models"
)

// CarAdapter builds a single deep-link offer from the affiliate's URL
// template. Car partners have no quotable search API; the landing page runs
// the actual search.
type CarAdapter struct{}

func NewCarAdapter() *CarAdapter {
	return &CarAdapter{}
}

func (a *CarAdapter) Search(_ context.Context, q models.Query, cfg models.AffiliateConfig) ([]models.SearchResult, error) {
	if cfg.TemplateURL == "" {
		return nil, fmt.Errorf("affiliate %s has no URL template", cfg.ProviderName)
	}

	link := expandTemplate(cfg.TemplateURL, map[string]string{
		"pickup":  q.Pickup,
		"dropoff": q.Dropoff,
		"date":    q.Date,
	})

	return []models.SearchResult{{
		Title: fmt.Sprintf("Car Rental - %s to %s", q.Pickup, q.Dropoff),
		Car: &models.CarDetails{
			Pickup:  q.Pickup,
			Dropoff: q.Dropoff,
			Date:    q.Date,
		},
		AffiliateLink: link,
	}}, nil
}

// InsuranceAdapter builds a single deep-link quote offer from the affiliate's
// URL template.
type InsuranceAdapter struct{}

func NewInsuranceAdapter() *InsuranceAdapter {
	return &InsuranceAdapter{}
}

func (a *InsuranceAdapter) Search(_ context.Context, q models.Query, cfg models.AffiliateConfig) ([]models.SearchResult, error) {
	if cfg.TemplateURL == "" {
		return nil, fmt.Errorf("affiliate %s has no URL template", cfg.ProviderName)
	}

	link := expandTemplate(cfg.TemplateURL, map[string]string{
		"destination": q.Destination,
		"start":       q.Start,
		"end":         q.End,
	})

	return []models.SearchResult{{
		Title: fmt.Sprintf("Travel Insurance to %s", q.Destination),
		Insurance: &models.InsuranceDetails{
			Destination: q.Destination,
			Start:       q.Start,
			End:         q.End,
		},
		AffiliateLink: link,
	}}, nil
}
