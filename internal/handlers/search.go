package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/models"
	"github.com/aviranmz/thedude/internal/search"
	"github.com/aviranmz/thedude/internal/validation"
)

// Searcher runs one category search with affiliate fallback.
type Searcher interface {
	SearchWithFallback(ctx context.Context, category models.Category, query models.Query) ([]models.SearchResult, error)
}

// SearchLogger records search requests for later analysis. Implementations
// must tolerate best-effort use; failures are logged, never surfaced.
type SearchLogger interface {
	LogSearch(ctx context.Context, userID, channel string, category models.Category, query models.Query) error
}

// SearchHandler exposes the per-category search endpoints.
type SearchHandler struct {
	searcher Searcher
	searches SearchLogger
	logger   zerolog.Logger
}

func NewSearchHandler(searcher Searcher, searches SearchLogger, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, searches: searches, logger: logger}
}

// Flights handles GET /search/flights.
func (h *SearchHandler) Flights(c fiber.Ctx) error {
	origin := c.Query("origin")
	destination := c.Query("destination")
	date := c.Query("date")
	if origin == "" || destination == "" || date == "" {
		return badRequest(c, "origin, destination and date are required")
	}
	if ok, msg := validation.ValidateDate(date); !ok {
		return badRequest(c, msg)
	}
	returnDate := c.Query("return_date")
	if ok, msg := validation.ValidateDateRange(date, returnDate); !ok {
		return badRequest(c, msg)
	}

	query := models.Query{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		ReturnDate:  returnDate,
	}
	return h.run(c, models.CategoryFlight, query)
}

// Hotels handles GET /search/hotels.
func (h *SearchHandler) Hotels(c fiber.Ctx) error {
	location := c.Query("location")
	checkin := c.Query("checkin")
	checkout := c.Query("checkout")
	if location == "" || checkin == "" || checkout == "" {
		return badRequest(c, "location, checkin and checkout are required")
	}
	if ok, msg := validation.ValidateDateRange(checkin, checkout); !ok {
		return badRequest(c, msg)
	}

	query := models.Query{
		Location: location,
		CheckIn:  checkin,
		CheckOut: checkout,
		Adults:   queryInt(c, "adults", 1),
		Children: queryInt(c, "children", 0),
		Currency: c.Query("currency", "EUR"),
		Limit:    queryInt(c, "limit", 5),
	}
	return h.run(c, models.CategoryHotel, query)
}

// Cars handles GET /search/cars.
func (h *SearchHandler) Cars(c fiber.Ctx) error {
	pickup := c.Query("pickup")
	if pickup == "" {
		return badRequest(c, "pickup is required")
	}
	date := c.Query("date")
	if ok, msg := validation.ValidateDate(date); !ok {
		return badRequest(c, msg)
	}

	query := models.Query{
		Pickup:  pickup,
		Dropoff: c.Query("dropoff", pickup),
		Date:    date,
	}
	return h.run(c, models.CategoryCar, query)
}

// Insurance handles GET /search/insurance.
func (h *SearchHandler) Insurance(c fiber.Ctx) error {
	destination := c.Query("destination")
	if destination == "" {
		return badRequest(c, "destination is required")
	}
	start := c.Query("start")
	end := c.Query("end")
	if ok, msg := validation.ValidateDateRange(start, end); !ok {
		return badRequest(c, msg)
	}

	query := models.Query{
		Destination: destination,
		Start:       start,
		End:         end,
	}
	return h.run(c, models.CategoryInsurance, query)
}

// ESIM handles GET /search/esim.
func (h *SearchHandler) ESIM(c fiber.Ctx) error {
	country := c.Query("country")
	if country == "" {
		return badRequest(c, "country is required")
	}

	return h.run(c, models.CategoryESIM, models.Query{Country: country})
}

// run executes the search and maps outcomes onto the wire contract: results
// as a JSON array, and the no-results shape with 200 when every provider
// came back empty or none is configured. Provider outages never become 5xx.
func (h *SearchHandler) run(c fiber.Ctx, category models.Category, query models.Query) error {
	go h.logSearch(c.Query("user_id"), category, query)

	results, err := h.searcher.SearchWithFallback(c.Context(), category, query)
	if err != nil {
		if errors.Is(err, search.ErrNoAffiliateConfigured) {
			return c.JSON(fiber.Map{"error": noResultsMessage})
		}
		h.logger.Error().Err(err).Str("category", category.String()).Msg("search failed")
		return c.JSON(fiber.Map{"error": noResultsMessage})
	}
	if len(results) == 0 {
		return c.JSON(fiber.Map{"error": noResultsMessage})
	}

	return c.JSON(results)
}

func (h *SearchHandler) logSearch(userID string, category models.Category, query models.Query) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.searches.LogSearch(ctx, userID, "api", category, query); err != nil {
		h.logger.Warn().Err(err).Str("category", category.String()).Msg("failed to log search")
	}
}

func queryInt(c fiber.Ctx, key string, fallback int) int {
	if value := c.Query(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
