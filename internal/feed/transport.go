package feed

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/fkoidl/heimdeck/internal/logger"
	"github.com/fkoidl/heimdeck/pkg/httpclient"
)

// ErrAllTransportsFailed signals that no transport attempt produced a
// plausible feed payload. Callers degrade to cached or synthetic data.
var ErrAllTransportsFailed = errors.New("all feed transports failed")

// Attempt is one named way of reaching a feed URL.
type Attempt struct {
	Name string
	URL  string
}

// ProxyAttempts builds the standard attempt order for a feed URL: the direct
// call, then the primary relay (base + raw URL), then the backup relay
// (base + url-encoded URL). Empty proxy bases are skipped.
func ProxyAttempts(feedURL, primaryBase, backupBase string) []Attempt {
	attempts := []Attempt{{Name: "direct", URL: feedURL}}
	if primaryBase != "" {
		attempts = append(attempts, Attempt{Name: "primary-proxy", URL: primaryBase + feedURL})
	}
	if backupBase != "" {
		attempts = append(attempts, Attempt{Name: "backup-proxy", URL: backupBase + url.QueryEscape(feedURL)})
	}
	return attempts
}

// Resolver tries transport attempts in order until one yields content that
// looks like a syndication feed.
type Resolver struct {
	client httpclient.Client
	log    logger.Logger
}

// NewResolver creates a Resolver with the given HTTP client and logger.
func NewResolver(client httpclient.Client, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Resolver{client: client, log: log}
}

// Resolve returns the first payload containing a feed container marker.
// A failed attempt never aborts the next one; when every attempt fails the
// caller gets ErrAllTransportsFailed.
func (r *Resolver) Resolve(ctx context.Context, sourceID string, attempts []Attempt) (string, error) {
	for _, att := range attempts {
		resp, err := r.client.Get(ctx, att.URL, nil)
		if err != nil {
			r.log.WarnObj("feed transport attempt failed", "transport_error", map[string]any{
				"source":  sourceID,
				"attempt": att.Name,
				"error":   err.Error(),
			})
			continue
		}

		if resp.StatusCode() != http.StatusOK {
			r.log.WarnObj("feed transport returned non-ok status", "transport_status", map[string]any{
				"source":  sourceID,
				"attempt": att.Name,
				"status":  resp.StatusCode(),
			})
			continue
		}

		body := string(resp.Body())
		if !HasFeedMarker(body) {
			r.log.WarnObj("response lacks feed container marker", "transport_shape", map[string]any{
				"source":  sourceID,
				"attempt": att.Name,
				"length":  len(body),
			})
			continue
		}

		r.log.DebugObj("feed transport attempt succeeded", "transport_ok", map[string]any{
			"source":  sourceID,
			"attempt": att.Name,
			"length":  len(body),
		})
		return body, nil
	}

	return "", ErrAllTransportsFailed
}

// HasFeedMarker reports whether the payload contains a recognizable feed
// container. A 200 response that parses as JSON or HTML but lacks these
// markers is treated as a transport failure.
func HasFeedMarker(payload string) bool {
	return strings.Contains(payload, "<rss") ||
		strings.Contains(payload, "<item") ||
		strings.Contains(payload, "<entry")
}
