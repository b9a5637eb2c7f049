// Package notify delivers operational alerts (settled matches, completed
// evaluation passes) to external channels such as Telegram and Discord.
// Channels are pluggable through the Sender interface; which event types
// reach them is controlled by an allow-list.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Event types emitted by the services.
const (
	EventMatchSettled   = "match_settled"
	EventModelEvaluated = "model_evaluated"
)

// Sender is one delivery channel.
type Sender interface {
	// Send delivers an alert with the given title and body.
	Send(ctx context.Context, title, body string) error
	// Name identifies the channel in logs (e.g. "telegram").
	Name() string
}

// Notifier fans an alert out to every configured Sender. An empty event
// allow-list means every event type is delivered.
type Notifier struct {
	senders []Sender
	allowed map[string]bool
	logger  *slog.Logger
}

// New creates a Notifier delivering to the given senders. Only events named
// in the events slice pass the filter; an empty slice allows everything.
func New(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		if e = strings.TrimSpace(e); e != "" {
			allowed[e] = true
		}
	}
	return &Notifier{
		senders: senders,
		allowed: allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify delivers the alert to every sender if the event type passes the
// allow-list. A failing sender does not stop delivery to the others; all
// sender errors are joined into the returned error.
func (n *Notifier) Notify(ctx context.Context, event, title, body string) error {
	if len(n.allowed) > 0 && !n.allowed[event] {
		n.logger.DebugContext(ctx, "event filtered out", slog.String("event", event))
		return nil
	}

	var errs []error
	for _, s := range n.senders {
		if err := s.Send(ctx, title, body); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "alert delivered",
			slog.String("sender", s.Name()),
			slog.String("event", event),
		)
	}
	return errors.Join(errs...)
}
