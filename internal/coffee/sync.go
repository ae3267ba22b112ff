package coffee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fkoidl/heimdeck/internal/logger"
	"github.com/fkoidl/heimdeck/pkg/httpclient"
)

const binAPIBase = "https://api.jsonbin.io/v3/b"

// Syncer mirrors the store to a remote JSON bin. A zero bin id disables it.
type Syncer struct {
	client    httpclient.Client
	log       logger.Logger
	binID     string
	masterKey string
}

// NewSyncer creates a syncer for the given bin credentials.
func NewSyncer(client httpclient.Client, log logger.Logger, binID, masterKey string) *Syncer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Syncer{client: client, log: log, binID: binID, masterKey: masterKey}
}

// Enabled reports whether the syncer has credentials to talk to the bin.
func (s *Syncer) Enabled() bool {
	return s != nil && s.binID != "" && s.masterKey != ""
}

// Save pushes the full entry set to the bin. Failures are logged and
// reported as a boolean so a missed sync never breaks a local mutation.
func (s *Syncer) Save(ctx context.Context, entries []Entry) bool {
	if !s.Enabled() {
		return false
	}
	url := fmt.Sprintf("%s/%s", binAPIBase, s.binID)
	headers := map[string]string{
		"Content-Type": "application/json",
		"X-Master-Key": s.masterKey,
	}
	resp, err := s.client.Put(ctx, url, headers, entries)
	if err != nil {
		s.log.WarnObj("coffee sync save failed", "coffee_sync", map[string]any{
			"error": err.Error(),
		})
		return false
	}
	if resp.StatusCode() != http.StatusOK {
		s.log.WarnObj("coffee sync save rejected", "coffee_sync", map[string]any{
			"status": resp.StatusCode(),
		})
		return false
	}
	s.log.DebugObj("coffee sync saved", "coffee_sync", map[string]any{
		"entries": len(entries),
	})
	return true
}

// Load pulls the latest entry set from the bin. The bin wraps the payload
// in a record envelope.
func (s *Syncer) Load(ctx context.Context) ([]Entry, bool) {
	if !s.Enabled() {
		return nil, false
	}
	url := fmt.Sprintf("%s/%s/latest", binAPIBase, s.binID)
	headers := map[string]string{"X-Master-Key": s.masterKey}

	resp, err := s.client.Get(ctx, url, headers)
	if err != nil {
		s.log.WarnObj("coffee sync load failed", "coffee_sync", map[string]any{
			"error": err.Error(),
		})
		return nil, false
	}
	if resp.StatusCode() != http.StatusOK {
		s.log.WarnObj("coffee sync load rejected", "coffee_sync", map[string]any{
			"status": resp.StatusCode(),
		})
		return nil, false
	}

	var envelope struct {
		Record []Entry `json:"record"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		s.log.WarnObj("coffee sync payload unreadable", "coffee_sync", map[string]any{
			"error": err.Error(),
		})
		return nil, false
	}
	return envelope.Record, true
}
