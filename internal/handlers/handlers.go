// Package handlers contains the HTTP handlers for the public API.
package handlers

import (
	"github.com/gofiber/fiber/v3"
)

const noResultsMessage = "No results found from any affiliate"

// HomeHandler serves the landing page.
type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) Show(c fiber.Ctx) error {
	return c.Render("home", fiber.Map{
		"Title": "The Dude - Travel Search",
	})
}
