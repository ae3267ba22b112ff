package notify

import (
	"context"
	"fmt"

	"github.com/fkoidl/heimdeck/internal/logger"
)

// Build instantiates a sink for every enabled config entry.
func Build(ctx context.Context, cfgs []SinkConfig, log logger.Logger) ([]Sink, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log = ensureLogger(log)

	var sinks []Sink
	for _, cfg := range cfgs {
		if !cfg.EnabledValue() {
			continue
		}
		sink, err := buildSink(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

func buildSink(ctx context.Context, cfg SinkConfig, log logger.Logger) (Sink, error) {
	switch cfg.Type {
	case TypeHTTP:
		return newHTTPSink(cfg, log)
	case TypeQueue:
		return newQueueSink(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("type %q not supported", cfg.Type)
	}
}
