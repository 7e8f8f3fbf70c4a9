package models

// SearchResult is one offer returned by a provider adapter. Exactly one of the
// category detail structs is set. Extra carries provider fields we pass through
// untouched; it is stored as redirect metadata for audit but never interpreted.
type SearchResult struct {
	Title    string   `json:"title,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Currency string   `json:"currency,omitempty"`

	Flight    *FlightDetails    `json:"flight,omitempty"`
	Hotel     *HotelDetails     `json:"hotel,omitempty"`
	Car       *CarDetails       `json:"car,omitempty"`
	Insurance *InsuranceDetails `json:"insurance,omitempty"`
	ESIM      *ESIMDetails      `json:"esim,omitempty"`

	AffiliateLink     string `json:"affiliate_link"`
	RedirectURL       string `json:"redirect_url,omitempty"`
	AffiliateProvider string `json:"affiliate_provider,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// FlightDetails holds flight-specific offer fields.
type FlightDetails struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date,omitempty"`
	ReturnDate    string `json:"return_date,omitempty"`
	Airline       string `json:"airline,omitempty"`
	FlightNumber  int    `json:"flight_number,omitempty"`
}

// HotelDetails holds hotel-specific offer fields.
type HotelDetails struct {
	HotelID  int64   `json:"hotel_id"`
	Name     string  `json:"name,omitempty"`
	Location string  `json:"location,omitempty"`
	Stars    int     `json:"stars,omitempty"`
	CheckIn  string  `json:"checkin,omitempty"`
	CheckOut string  `json:"checkout,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
}

// CarDetails holds rental-car offer fields.
type CarDetails struct {
	Pickup  string `json:"pickup"`
	Dropoff string `json:"dropoff"`
	Date    string `json:"date,omitempty"`
}

// InsuranceDetails holds travel-insurance offer fields.
type InsuranceDetails struct {
	Destination string `json:"destination"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
}

// ESIMDetails holds eSIM offer fields.
type ESIMDetails struct {
	Country string `json:"country"`
}

// Metadata flattens the result into the opaque blob stored on its redirect.
func (r *SearchResult) Metadata() map[string]any {
	m := map[string]any{}
	for k, v := range r.Extra {
		m[k] = v
	}
	if r.Title != "" {
		m["title"] = r.Title
	}
	if r.Price != nil {
		m["price"] = *r.Price
	}
	if r.Currency != "" {
		m["currency"] = r.Currency
	}
	if r.AffiliateProvider != "" {
		m["affiliate_provider"] = r.AffiliateProvider
	}
	return m
}
