// Package analytics delivers click audit events to an external sink.
package analytics

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/models"
)

// ClickEvent is emitted once per successful redirect resolution.
type ClickEvent struct {
	Token     string          `json:"token"`
	Type      models.Category `json:"type"`
	IP        string          `json:"ip"`
	UserAgent string          `json:"user_agent"`
	Timestamp time.Time       `json:"timestamp"`
}

// Sink receives click events. Delivery is best-effort: implementations log
// failures and the caller never blocks the redirect response on them.
type Sink interface {
	EmitClick(ctx context.Context, event ClickEvent) error
}

// LogSink writes click events to the structured log. Used when no broker is
// configured.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) EmitClick(_ context.Context, event ClickEvent) error {
	s.logger.Info().
		Str("token", event.Token).
		Str("type", event.Type.String()).
		Str("ip", event.IP).
		Str("user_agent", event.UserAgent).
		Time("timestamp", event.Timestamp).
		Msg("redirect click")
	return nil
}
