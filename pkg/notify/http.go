package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fkoidl/heimdeck/internal/logger"
)

// httpSink posts events to a webhook endpoint.
type httpSink struct {
	id     string
	cfg    HTTPSinkConfig
	client *resty.Client
	log    logger.Logger
}

func newHTTPSink(cfg SinkConfig, log logger.Logger) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("http configuration is missing")
	}
	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)
	return &httpSink{
		id:     cfg.ID,
		cfg:    *cfg.HTTP,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (s *httpSink) ID() string   { return s.id }
func (s *httpSink) Type() string { return TypeHTTP }

// Deliver posts the event as a JSON body using the configured method.
func (s *httpSink) Deliver(ctx context.Context, evt Event) error {
	req := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeaders(s.cfg.Headers).
		SetBody(evt)

	resp, err := req.Execute(s.cfg.Method, s.cfg.URL)
	if err != nil {
		return fmt.Errorf("post event to webhook: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	s.log.DebugObj("webhook accepted event", "notify_http_delivery", map[string]any{
		"status": resp.StatusCode(),
	})
	return nil
}
