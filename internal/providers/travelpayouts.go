package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aviranmz/thedude/internal/models"
)

const (
	travelpayoutsV1URL = "https://api.travelpayouts.com/v1/prices/cheap"
	travelpayoutsV2URL = "https://api.travelpayouts.com/v2/prices/latest"

	// inboundDateLayout is the YYYY-MM-DD format search callers send.
	inboundDateLayout = "2006-01-02"
	// travelpayoutsMonth is the YYYY-MM granularity the prices API accepts.
	travelpayoutsMonth = "2006-01"
)

// FlightAdapter searches flights through the Travelpayouts prices API. The
// affiliate template's provider_url field selects the API generation: "v2"
// uses the latest-prices endpoint, anything else the v1 cheap-prices one.
type FlightAdapter struct {
	client *http.Client
	v1URL  string
	v2URL  string
}

func NewFlightAdapter(timeout time.Duration) *FlightAdapter {
	return &FlightAdapter{
		client: newHTTPClient(timeout),
		v1URL:  travelpayoutsV1URL,
		v2URL:  travelpayoutsV2URL,
	}
}

func (a *FlightAdapter) Search(ctx context.Context, q models.Query, cfg models.AffiliateConfig) ([]models.SearchResult, error) {
	departMonth, err := monthOf(q.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid departure date %q: %w", q.Date, err)
	}

	if cfg.ProviderURL == "v2" {
		return a.searchV2(ctx, cfg)
	}

	returnMonth := ""
	if q.ReturnDate != "" {
		returnMonth, err = monthOf(q.ReturnDate)
		if err != nil {
			return nil, fmt.Errorf("invalid return date %q: %w", q.ReturnDate, err)
		}
	}
	return a.searchV1(ctx, q.Origin, q.Destination, departMonth, returnMonth, cfg)
}

func monthOf(date string) (string, error) {
	parsed, err := time.Parse(inboundDateLayout, date)
	if err != nil {
		return "", err
	}
	return parsed.Format(travelpayoutsMonth), nil
}

type tpV1Response struct {
	Currency string                                `json:"currency"`
	Data     map[string]map[string]tpV1FlightEntry `json:"data"`
}

type tpV1FlightEntry struct {
	Price        float64 `json:"price"`
	Airline      string  `json:"airline"`
	FlightNumber int     `json:"flight_number"`
	DepartureAt  string  `json:"departure_at"`
	ReturnAt     string  `json:"return_at"`
}

func (a *FlightAdapter) searchV1(ctx context.Context, origin, destination, departMonth, returnMonth string, cfg models.AffiliateConfig) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("depart_date", departMonth)
	params.Set("return_date", returnMonth)
	params.Set("token", cfg.APIKey)

	var payload tpV1Response
	if err := a.get(ctx, a.v1URL, params, cfg.APIKey, &payload); err != nil {
		return nil, err
	}

	currency := payload.Currency
	if currency == "" {
		currency = "USD"
	}

	var results []models.SearchResult
	for dest, offers := range payload.Data {
		for _, entry := range offers {
			price := entry.Price
			results = append(results, models.SearchResult{
				Price:    &price,
				Currency: currency,
				Flight: &models.FlightDetails{
					Origin:        origin,
					Destination:   dest,
					DepartureDate: entry.DepartureAt,
					ReturnDate:    entry.ReturnAt,
					Airline:       entry.Airline,
					FlightNumber:  entry.FlightNumber,
				},
				AffiliateLink: fmt.Sprintf("https://www.aviasales.com/search/%s0101%s0202", origin, dest),
			})
		}
	}
	return results, nil
}

type tpV2Response struct {
	Currency string        `json:"currency"`
	Data     []tpV2Flight `json:"data"`
}

type tpV2Flight struct {
	Price       float64 `json:"price"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DepartDate  string  `json:"depart_date"`
	Link        string  `json:"link"`
}

func (a *FlightAdapter) searchV2(ctx context.Context, cfg models.AffiliateConfig) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("currency", "usd")
	params.Set("period_type", "year")
	params.Set("page", "1")
	params.Set("limit", "30")
	params.Set("show_to_affiliates", "true")
	params.Set("sorting", "price")
	params.Set("trip_class", "0")
	params.Set("token", cfg.APIKey)

	var payload tpV2Response
	if err := a.get(ctx, a.v2URL, params, cfg.APIKey, &payload); err != nil {
		return nil, err
	}

	currency := payload.Currency
	if currency == "" {
		currency = "USD"
	}

	var results []models.SearchResult
	for _, flight := range payload.Data {
		price := flight.Price
		results = append(results, models.SearchResult{
			Price:    &price,
			Currency: currency,
			Flight: &models.FlightDetails{
				Origin:        flight.Origin,
				Destination:   flight.Destination,
				DepartureDate: flight.DepartDate,
			},
			AffiliateLink: flight.Link,
		})
	}
	return results, nil
}

func (a *FlightAdapter) get(ctx context.Context, endpoint string, params url.Values, apiKey string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Access-Token", apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("travelpayouts returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
