package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// rfc2822Layouts cover the "day, DD Mon YYYY HH:MM:SS zone" shapes common in
// item-based feeds, with numeric and named zones.
var rfc2822Layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// NormalizeDate parses a heterogeneous feed date string into a point in
// time. Parsing is total: empty or unparseable input yields the current
// instant, never an error.
func NormalizeDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now()
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t
	}

	for _, layout := range rfc2822Layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	return time.Now()
}
