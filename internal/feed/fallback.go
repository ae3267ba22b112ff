package feed

import (
	"math/rand"
	"time"

	"github.com/fkoidl/heimdeck/internal/domain"
)

// Template is one synthetic placeholder entry in a source's fallback table.
type Template struct {
	Title       string
	Description string
	Category    string
	Meta        map[string]string
}

// GenerateFallback produces up to count synthetic records from the source's
// template table. Each record gets a random timestamp inside the source's
// recency window so the output is indistinguishable in shape from live
// data, and flows through the same defaults as extracted records.
func GenerateFallback(src Source, count int, now time.Time) []domain.Record {
	n := min(count, len(src.Fallback))
	if n <= 0 {
		return nil
	}

	window := src.FallbackWindow
	if window <= time.Hour {
		window = 24 * time.Hour
	}

	records := make([]domain.Record, 0, n)
	for _, tpl := range src.Fallback[:n] {
		category := tpl.Category
		if category == "" {
			category = src.DefaultCategory
		}

		meta := map[string]string{"synthetic": "true"}
		for k, v := range tpl.Meta {
			meta[k] = v
		}

		// At least one hour in the past, like a feed that was published
		// earlier today rather than this very second.
		offset := time.Hour + time.Duration(rand.Int63n(int64(window-time.Hour)))

		records = append(records, domain.Record{
			Title:       tpl.Title,
			Description: tpl.Description,
			Link:        src.Homepage,
			PublishedAt: now.Add(-offset),
			Author:      src.DefaultAuthor,
			Source:      src.Name,
			// "Demo" marks placeholder entries alongside the Meta flag.
			Categories: []string{category, "Demo"},
			Meta:       meta,
		})
	}
	return records
}
