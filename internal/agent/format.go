package agent

import (
	"fmt"
	"strings"

	"github.com/aviranmz/thedude/internal/models"
)

// formatReply renders a short channel-friendly summary: the top flight and up
// to three hotels, each linked through its redirect.
func formatReply(trip models.TripInfo, flights, hotels []models.SearchResult) string {
	if len(flights) == 0 && len(hotels) == 0 {
		return "No flights or hotels found for your request."
	}

	var parts []string

	if len(flights) > 0 {
		top := flights[0]
		parts = append(parts, "*Top Flight Option*")
		if top.Flight != nil {
			parts = append(parts, fmt.Sprintf("%s -> %s", top.Flight.Origin, top.Flight.Destination))
		}
		parts = append(parts, "Price: "+formatPrice(top.Price, top.Currency))
		if top.Flight != nil && top.Flight.DepartureDate != "" {
			parts = append(parts, "Departure: "+top.Flight.DepartureDate)
		}
		if top.Flight != nil && top.Flight.ReturnDate != "" {
			parts = append(parts, "Return: "+top.Flight.ReturnDate)
		}
		if top.RedirectURL != "" {
			parts = append(parts, fmt.Sprintf("[Book this flight](%s)", top.RedirectURL))
		}
	}

	if len(hotels) > 0 {
		parts = append(parts, fmt.Sprintf("*Top Hotels in %s*", trip.Destination))
		limit := len(hotels)
		if limit > 3 {
			limit = 3
		}
		for _, hotel := range hotels[:limit] {
			name := hotel.Title
			if name == "" && hotel.Hotel != nil {
				name = hotel.Hotel.Name
			}
			if name == "" {
				name = "Hotel"
			}
			link := hotel.RedirectURL
			if link == "" {
				link = "#"
			}
			parts = append(parts, fmt.Sprintf("- %s - %s [Book](%s)", name, formatPrice(hotel.Price, hotel.Currency), link))
		}
	}

	return strings.Join(parts, "\n")
}

func formatPrice(price *float64, currency string) string {
	if price == nil {
		return "N/A"
	}
	if currency == "" {
		currency = "EUR"
	}
	return fmt.Sprintf("%.2f %s", *price, currency)
}
