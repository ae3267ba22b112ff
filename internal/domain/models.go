package domain

import "time"

// Domain contains the models shared across feed sources.

// Record is one normalized feed item, regardless of which source or feed
// style it was extracted from. Synthetic fallback records use exactly the
// same shape so downstream consumers never branch on origin.
type Record struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Link        string            `json:"link"`
	PublishedAt time.Time         `json:"published_at"`
	Author      string            `json:"author"`
	Thumbnail   string            `json:"thumbnail,omitempty"`
	Source      string            `json:"source"`
	Categories  []string          `json:"categories"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Synthetic reports whether the record came from the fallback generator
// rather than a live feed.
func (r Record) Synthetic() bool {
	return r.Meta["synthetic"] == "true"
}
