package events

import (
	"context"
	"log/slog"
)

var _ Publisher = (*LogPublisher)(nil)

// LogPublisher is used when no broker is configured or reachable. Events are
// only written to the log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishAlertsChanged(ctx context.Context, ev AlertsChanged) error {
	p.logger.WarnContext(ctx, "alerts changed (broker disabled, event not published)",
		"event_id", ev.EventID,
		"preset", ev.Preset,
		"raised", ev.Raised,
		"cleared", ev.Cleared,
		"active", ev.Active,
	)

	return nil
}

func (p *LogPublisher) Close() error { return nil }
