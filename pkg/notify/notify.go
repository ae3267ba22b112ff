// Package notify dispatches dashboard events to configured sinks: HTTP
// webhooks, AWS SNS/SQS and GCP Pub/Sub.
package notify

import (
	"context"
	"time"

	"github.com/fkoidl/heimdeck/internal/logger"
)

// Event kinds emitted by the dashboard.
const (
	KindFeedRefresh    = "feed.refresh"
	KindTodoMutation   = "todo.mutation"
	KindCoffeeMutation = "coffee.mutation"
)

// Event is one dashboard occurrence worth broadcasting.
type Event struct {
	Kind    string         `json:"kind"`
	Source  string         `json:"source,omitempty"`
	Subject string         `json:"subject,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
	At      time.Time      `json:"at"`
}

// Sink delivers events to one destination.
type Sink interface {
	ID() string
	Type() string
	Deliver(ctx context.Context, evt Event) error
}

// Dispatcher fans events out to every configured sink. Delivery failures
// are logged per sink and never propagate to the caller.
type Dispatcher struct {
	sinks []Sink
	log   logger.Logger
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(sinks []Sink, log logger.Logger) *Dispatcher {
	return &Dispatcher{sinks: sinks, log: ensureLogger(log)}
}

// Enabled reports whether any sink is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && len(d.sinks) > 0
}

// Emit stamps and delivers the event to every sink.
func (d *Dispatcher) Emit(ctx context.Context, evt Event) {
	if !d.Enabled() {
		return
	}
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, evt); err != nil {
			d.log.WarnObj("event delivery failed", "notify_delivery", map[string]any{
				"sink":  sink.ID(),
				"type":  sink.Type(),
				"kind":  evt.Kind,
				"error": err.Error(),
			})
			continue
		}
		d.log.DebugObj("event delivered", "notify_delivery", map[string]any{
			"sink": sink.ID(),
			"kind": evt.Kind,
		})
	}
}

func ensureLogger(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
