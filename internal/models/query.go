package models

// Query carries the search parameters for one aggregator invocation. Only the
// fields relevant to the category are populated; adapters read what they need.
type Query struct {
	// Flights
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Date        string `json:"date,omitempty"`
	ReturnDate  string `json:"return_date,omitempty"`

	// Hotels
	Location string `json:"location,omitempty"`
	CheckIn  string `json:"checkin,omitempty"`
	CheckOut string `json:"checkout,omitempty"`
	Adults   int    `json:"adults,omitempty"`
	Children int    `json:"children,omitempty"`
	Currency string `json:"currency,omitempty"`
	Limit    int    `json:"limit,omitempty"`

	// Cars
	Pickup  string `json:"pickup,omitempty"`
	Dropoff string `json:"dropoff,omitempty"`

	// Insurance
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	// eSIM
	Country string `json:"country,omitempty"`
}
