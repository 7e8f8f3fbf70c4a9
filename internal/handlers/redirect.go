package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/redirect"
	"github.com/aviranmz/thedude/internal/validation"
)

// Resolver claims one click on a token and returns the destination.
type Resolver interface {
	Resolve(ctx context.Context, token string, visitor redirect.Visitor) (string, error)
}

// RedirectHandler resolves issued tokens into 302 redirects.
type RedirectHandler struct {
	registry Resolver
	logger   zerolog.Logger
}

func NewRedirectHandler(registry Resolver, logger zerolog.Logger) *RedirectHandler {
	return &RedirectHandler{registry: registry, logger: logger}
}

// Resolve handles GET /r/:token. Unknown tokens get 404; expired or
// exhausted tokens get 410 so crawlers drop the link.
func (h *RedirectHandler) Resolve(c fiber.Ctx) error {
	token := c.Params("token")
	if !validation.ValidateToken(token) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "redirect not found",
		})
	}

	destination, err := h.registry.Resolve(c.Context(), token, redirect.Visitor{
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		switch {
		case errors.Is(err, redirect.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "redirect not found",
			})
		case errors.Is(err, redirect.ErrExpired):
			return c.Status(fiber.StatusGone).JSON(fiber.Map{
				"error": "redirect expired",
			})
		case errors.Is(err, redirect.ErrLimitReached):
			return c.Status(fiber.StatusGone).JSON(fiber.Map{
				"error": "redirect click limit reached",
			})
		default:
			h.logger.Error().Err(err).Str("token", token).Msg("redirect resolution failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "redirect service unavailable",
			})
		}
	}

	return c.Redirect().Status(fiber.StatusFound).To(destination)
}
