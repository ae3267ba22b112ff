package feed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fkoidl/heimdeck/internal/domain"
)

// Review enrichment derives score, platform and genre from the raw item
// text of a review feed and stores them in the record's meta map.

var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Score:\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)Rating:\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*/\s*10`),
}

var reviewPlatforms = []string{
	"PC", "PS5", "PS4", "Xbox Series X/S", "Xbox One", "Nintendo Switch", "Steam Deck",
}

var reviewGenres = []string{
	"Action", "Adventure", "RPG", "Strategy", "Shooter", "Sports",
	"Racing", "Simulation", "Puzzle", "Horror",
}

// EnrichReview fills the review-specific meta fields on a record.
func EnrichReview(rec *domain.Record, rawItem string) {
	if rec.Meta == nil {
		rec.Meta = map[string]string{}
	}
	rec.Meta["score"] = strconv.FormatFloat(extractScore(rawItem), 'f', -1, 64)
	rec.Meta["platform"] = extractKeyword(rawItem, reviewPlatforms, "Multiple Platforms")
	rec.Meta["genre"] = extractKeyword(rawItem, reviewGenres, "")
}

// extractScore scans the known review-score phrasings; absence is zero,
// which downstream renders as "Not Scored".
func extractScore(text string) float64 {
	for _, re := range scorePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			return score
		}
	}
	return 0
}

func extractKeyword(text string, candidates []string, fallback string) string {
	lower := strings.ToLower(text)
	for _, c := range candidates {
		if strings.Contains(lower, strings.ToLower(c)) {
			return c
		}
	}
	return fallback
}
