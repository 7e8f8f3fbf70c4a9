package models

// AgentRequest is the inbound payload for the conversational planner endpoint.
type AgentRequest struct {
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
	Channel string `json:"channel"`
}

// AgentResponse is the planner reply. Search slices are empty rather than nil
// when nothing was found, so channel integrations get a stable shape.
type AgentResponse struct {
	Reply         string         `json:"reply"`
	CanSearch     bool           `json:"can_search"`
	SearchTypes   []string       `json:"search_types"`
	MissingFields []string       `json:"missing_fields"`
	Flights       []SearchResult `json:"flights"`
	Hotels        []SearchResult `json:"hotels"`
	Origin        string         `json:"origin,omitempty"`
	Destination   string         `json:"destination,omitempty"`
	Dates         TripDates      `json:"dates"`
	Adults        int            `json:"adults"`
	Children      int            `json:"children"`
}

// TripDates is the start/end pair extracted from a user message.
type TripDates struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// TripInfo is the structured intent extracted from a free-form message.
type TripInfo struct {
	Complete     bool              `json:"complete"`
	Type         []string          `json:"type"`
	Origin       string            `json:"origin"`
	Destination  string            `json:"destination"`
	Dates        TripDates         `json:"dates"`
	Budget       map[string]string `json:"budget"`
	UpdatedPrefs map[string]any    `json:"updated_prefs"`
	FollowUp     string            `json:"follow_up"`
}
