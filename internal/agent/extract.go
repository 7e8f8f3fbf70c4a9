package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aviranmz/thedude/internal/models"
)

const extractPromptTemplate = `You are Dude, a friendly and smart AI travel assistant in PLANNING MODE.

Your job is to extract structured trip information from the user's message.

User Message: %s
User Preferences: %s
Time: %s

Extract the following fields:
- origin (departure city, e.g., "London")
- destination (arrival city, e.g., "Milan")
- dates: with fields 'start' and 'end' in format 'YYYY-MM-DD'
- type: list including any of ["flight", "hotel", "car"]
- budget: if mentioned, return as: { "flight": "300", "hotel": "400" }
- updated_prefs: return changes in user preferences (like class, budget, etc.)
- follow_up: only include if key data (like destination or dates) is missing
- complete: true if destination, origin, and start date are present

If the user says something like "from Paris to Rome", extract:
  - origin = "Paris"
  - destination = "Rome"

Always return a valid JSON in this format:
{
  "complete": true,
  "type": ["hotel", "flight"],
  "origin": "London",
  "destination": "Milan",
  "dates": {"start": "2025-11-11", "end": "2025-11-14"},
  "budget": {"flight": "300", "hotel": "400"},
  "updated_prefs": {},
  "follow_up": ""
}`

// extractTrip asks the LLM for structured intent. A malformed reply degrades
// to an incomplete TripInfo that asks the user to rephrase, never an error.
func (s *Service) extractTrip(ctx context.Context, message string, prefs map[string]any) (models.TripInfo, error) {
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		prefsJSON = []byte("{}")
	}

	prompt := fmt.Sprintf(extractPromptTemplate, message, prefsJSON, s.clock.Now().Format("2006-01-02T15:04:05"))

	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return models.TripInfo{}, fmt.Errorf("llm completion failed: %w", err)
	}

	trip, ok := parseTripInfo(raw)
	if !ok {
		s.logger.Warn().Str("raw", raw).Msg("unparseable trip extraction")
		return models.TripInfo{
			Type:         []string{},
			Dates:        models.TripDates{},
			Budget:       map[string]string{},
			UpdatedPrefs: map[string]any{},
			FollowUp:     "Sorry, I could not understand that. Where would you like to go, and when?",
		}, nil
	}
	return trip, nil
}

// parseTripInfo tolerates markdown fences and prose around the JSON object.
func parseTripInfo(raw string) (models.TripInfo, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.TripInfo{}, false
	}

	var trip models.TripInfo
	if err := json.Unmarshal([]byte(raw[start:end+1]), &trip); err != nil {
		return models.TripInfo{}, false
	}
	return trip, true
}
