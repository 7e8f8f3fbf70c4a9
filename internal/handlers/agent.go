package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/models"
)

// Planner runs the conversational trip pipeline.
type Planner interface {
	Handle(ctx context.Context, req models.AgentRequest) (models.AgentResponse, error)
}

// AgentHandler exposes the conversational planner endpoint.
type AgentHandler struct {
	planner Planner
	logger  zerolog.Logger
}

func NewAgentHandler(planner Planner, logger zerolog.Logger) *AgentHandler {
	return &AgentHandler{planner: planner, logger: logger}
}

// Plan handles POST /agent.
func (h *AgentHandler) Plan(c fiber.Ctx) error {
	var req models.AgentRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "message is required")
	}
	if req.Channel == "" {
		req.Channel = "api"
	}

	resp, err := h.planner.Handle(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", req.UserID).Msg("agent pipeline failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "planner unavailable, try again shortly",
		})
	}

	return c.JSON(resp)
}

// Preflight handles OPTIONS /agent for browser clients.
func (h *AgentHandler) Preflight(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
