package notify

import (
	"context"
	"fmt"

	"github.com/fkoidl/heimdeck/internal/logger"
)

// queueSender abstracts provider-specific queue senders.
type queueSender interface {
	Send(ctx context.Context, evt Event) error
}

// queueSink dispatches events to a cloud queue provider.
type queueSink struct {
	id       string
	provider string
	sender   queueSender
}

func newQueueSink(ctx context.Context, cfg SinkConfig, log logger.Logger) (Sink, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("queue configuration is missing")
	}

	var (
		sender queueSender
		err    error
	)
	switch cfg.Queue.Provider {
	case QueueProviderAWSSNS:
		sender, err = newAWSSNSSender(ctx, cfg.Queue.SNS, log)
	case QueueProviderAWSSQS:
		sender, err = newAWSSQSSender(ctx, cfg.Queue.SQS, log)
	case QueueProviderGCP:
		sender, err = newGCPPubSubSender(ctx, cfg.Queue.GCP, log)
	default:
		err = fmt.Errorf("queue provider %q is not supported", cfg.Queue.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &queueSink{id: cfg.ID, provider: cfg.Queue.Provider, sender: sender}, nil
}

func (s *queueSink) ID() string   { return s.id }
func (s *queueSink) Type() string { return TypeQueue }

// Deliver forwards the event to the configured queue provider.
func (s *queueSink) Deliver(ctx context.Context, evt Event) error {
	if err := s.sender.Send(ctx, evt); err != nil {
		return fmt.Errorf("queue provider %s send failed: %w", s.provider, err)
	}
	return nil
}
