// Package agent implements the conversational trip planner. One request flows
// through: log input, load preferences, extract structured trip intent with the
// LLM, run the affiliate searches, format a reply, persist preference updates.
package agent

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/clock"
	"github.com/aviranmz/thedude/internal/llm"
	"github.com/aviranmz/thedude/internal/models"
)

const defaultFollowUp = "Can you clarify your travel destination or dates?"

// Memory persists conversation history and user preferences.
type Memory interface {
	GetUserPreferences(ctx context.Context, userID string) (map[string]any, error)
	SaveUserPreferences(ctx context.Context, userID string, updates map[string]any) error
	LogInteraction(ctx context.Context, userID, direction, channel, message string) error
}

// Searcher runs one category search with affiliate fallback.
type Searcher interface {
	SearchWithFallback(ctx context.Context, category models.Category, query models.Query) ([]models.SearchResult, error)
}

type Service struct {
	llm    llm.Provider
	memory Memory
	search Searcher
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(provider llm.Provider, memory Memory, search Searcher, clk clock.Clock, logger zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Service{
		llm:    provider,
		memory: memory,
		search: search,
		clock:  clk,
		logger: logger.With().Str("component", "agent").Logger(),
	}
}

// Handle runs the planner pipeline for one message. Memory writes are
// best-effort; a failed interaction log never fails the request.
func (s *Service) Handle(ctx context.Context, req models.AgentRequest) (models.AgentResponse, error) {
	userID := strconv.FormatInt(req.UserID, 10)

	hb := StartHeartbeat(ctx, 5*time.Second, func() {
		s.logger.Debug().Str("user_id", userID).Msg("still planning")
	})
	defer hb.Stop()

	if err := s.memory.LogInteraction(ctx, userID, "input", req.Channel, req.Message); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to log input interaction")
	}

	prefs, err := s.memory.GetUserPreferences(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to load preferences")
		prefs = map[string]any{}
	}

	trip, err := s.extractTrip(ctx, req.Message, prefs)
	if err != nil {
		return models.AgentResponse{}, err
	}

	resp := models.AgentResponse{
		SearchTypes:   trip.Type,
		MissingFields: missingFields(trip),
		Flights:       []models.SearchResult{},
		Hotels:        []models.SearchResult{},
		Origin:        trip.Origin,
		Destination:   trip.Destination,
		Dates:         trip.Dates,
		Adults:        1,
	}

	if !trip.Complete {
		resp.Reply = trip.FollowUp
		if resp.Reply == "" {
			resp.Reply = defaultFollowUp
		}
		s.logOutput(ctx, userID, req.Channel, resp.Reply)
		return resp, nil
	}
	resp.CanSearch = true

	if trip.Origin != "" && trip.Destination != "" && trip.Dates.Start != "" {
		flights, err := s.search.SearchWithFallback(ctx, models.CategoryFlight, models.Query{
			Origin:      trip.Origin,
			Destination: trip.Destination,
			Date:        trip.Dates.Start,
			ReturnDate:  trip.Dates.End,
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("flight search failed")
		} else {
			resp.Flights = flights
		}
	}

	if trip.Destination != "" && trip.Dates.Start != "" && trip.Dates.End != "" {
		hotels, err := s.search.SearchWithFallback(ctx, models.CategoryHotel, models.Query{
			Location: trip.Destination,
			CheckIn:  trip.Dates.Start,
			CheckOut: trip.Dates.End,
			Adults:   resp.Adults,
			Currency: "EUR",
			Limit:    5,
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("hotel search failed")
		} else {
			resp.Hotels = hotels
		}
	}

	resp.Reply = formatReply(trip, resp.Flights, resp.Hotels)
	s.logOutput(ctx, userID, req.Channel, resp.Reply)

	if len(trip.UpdatedPrefs) > 0 {
		if err := s.memory.SaveUserPreferences(ctx, userID, trip.UpdatedPrefs); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to save preferences")
		}
	}

	return resp, nil
}

func (s *Service) logOutput(ctx context.Context, userID, channel, reply string) {
	if err := s.memory.LogInteraction(ctx, userID, "output", channel, reply); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to log output interaction")
	}
}

func missingFields(trip models.TripInfo) []string {
	missing := []string{}
	if trip.Origin == "" {
		missing = append(missing, "origin")
	}
	if trip.Destination == "" {
		missing = append(missing, "destination")
	}
	if trip.Dates.Start == "" {
		missing = append(missing, "dates")
	}
	return missing
}
