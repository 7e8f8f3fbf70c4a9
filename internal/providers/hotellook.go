package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aviranmz/thedude/internal/models"
)

const hotellookCacheURL = "https://engine.hotellook.com/api/v2/cache.json"

// defaultHotelTemplate is used when an affiliate template carries no URL of
// its own.
const defaultHotelTemplate = "https://www.hotellook.com/hotels/{hotel_id}?marker=615157&checkIn={checkin}&checkOut={checkout}&adults={adults}"

// HotelAdapter searches hotels through the Hotellook price cache API.
type HotelAdapter struct {
	client  *http.Client
	baseURL string
}

func NewHotelAdapter(timeout time.Duration) *HotelAdapter {
	return &HotelAdapter{
		client:  newHTTPClient(timeout),
		baseURL: hotellookCacheURL,
	}
}

type hotellookEntry struct {
	HotelID   int64   `json:"hotelId"`
	HotelName string  `json:"hotelName"`
	Stars     int     `json:"stars"`
	PriceFrom float64 `json:"priceFrom"`
	PriceAvg  float64 `json:"priceAvg"`
	Location  struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
}

func (a *HotelAdapter) Search(ctx context.Context, q models.Query, cfg models.AffiliateConfig) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("location", q.Location)
	params.Set("checkIn", q.CheckIn)
	params.Set("checkOut", q.CheckOut)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("children", strconv.Itoa(q.Children))
	params.Set("currency", q.Currency)
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("details", "1")
	params.Set("photos", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotellook returned status %d", resp.StatusCode)
	}

	var entries []hotellookEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}

	template := cfg.TemplateURL
	if template == "" {
		template = defaultHotelTemplate
	}

	var results []models.SearchResult
	for _, entry := range entries {
		price := entry.PriceFrom
		if price == 0 {
			price = entry.PriceAvg
		}

		link := expandTemplate(template, map[string]string{
			"hotel_id": strconv.FormatInt(entry.HotelID, 10),
			"checkin":  q.CheckIn,
			"checkout": q.CheckOut,
			"adults":   strconv.Itoa(q.Adults),
		})

		results = append(results, models.SearchResult{
			Title:    entry.HotelName,
			Price:    &price,
			Currency: q.Currency,
			Hotel: &models.HotelDetails{
				HotelID:  entry.HotelID,
				Name:     entry.HotelName,
				Location: entry.Location.Name,
				Stars:    entry.Stars,
				CheckIn:  q.CheckIn,
				CheckOut: q.CheckOut,
			},
			AffiliateLink: link,
		})
	}
	return results, nil
}
