package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/db"
	"github.com/aviranmz/thedude/internal/models"
	"github.com/aviranmz/thedude/internal/validation"
)

// AffiliateHandler manages the affiliate provider configuration. These routes
// sit behind bearer auth; they are operator tooling, not public surface.
type AffiliateHandler struct {
	db     *db.DB
	logger zerolog.Logger
}

func NewAffiliateHandler(database *db.DB, logger zerolog.Logger) *AffiliateHandler {
	return &AffiliateHandler{db: database, logger: logger}
}

// List handles GET /admin/affiliates/:type.
func (h *AffiliateHandler) List(c fiber.Ctx) error {
	category := models.Category(c.Params("type"))
	if !category.Valid() {
		return badRequest(c, "unknown category")
	}

	configs, err := h.db.GetAffiliatesByCategory(c.Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(configs)
}

// Create handles POST /admin/affiliates.
func (h *AffiliateHandler) Create(c fiber.Ctx) error {
	var cfg models.AffiliateConfig
	if err := c.Bind().Body(&cfg); err != nil {
		return badRequest(c, "invalid request body")
	}

	cfg.ProviderName = strings.TrimSpace(cfg.ProviderName)
	if cfg.ProviderName == "" {
		return badRequest(c, "provider_name is required")
	}
	if !cfg.Type.Valid() {
		return badRequest(c, "unknown category")
	}
	if cfg.TemplateURL != "" {
		if ok, msg := validation.ValidateURL(cfg.TemplateURL); !ok {
			return badRequest(c, msg)
		}
	}

	if err := h.db.CreateAffiliate(c.Context(), &cfg); err != nil {
		if errors.Is(err, db.ErrDuplicateAffiliate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "affiliate already configured for this category",
			})
		}
		return err
	}

	h.logger.Info().
		Str("provider", cfg.ProviderName).
		Str("type", cfg.Type.String()).
		Int("priority", cfg.Priority).
		Msg("affiliate configured")
	return c.Status(fiber.StatusCreated).JSON(cfg)
}

// SetEnabled handles PATCH /admin/affiliates/:type/:provider.
func (h *AffiliateHandler) SetEnabled(c fiber.Ctx) error {
	category := models.Category(c.Params("type"))
	if !category.Valid() {
		return badRequest(c, "unknown category")
	}
	provider := c.Params("provider")

	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.db.SetAffiliateEnabled(c.Context(), provider, category, body.Enabled); err != nil {
		if errors.Is(err, db.ErrAffiliateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "affiliate not found",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"provider": provider,
		"type":     category,
		"enabled":  body.Enabled,
	})
}
