// Package display holds pure presentation helpers mapping record fields to
// icons, labels and relative-time strings.
package display

import (
	"fmt"
	"time"

	"github.com/fkoidl/heimdeck/internal/feed"
)

var techCategoryIcons = feed.LabelTable{
	Rules: []feed.LabelRule{
		{Keyword: "gaming", Label: "🎮"},
		{Keyword: "game", Label: "🎮"},
		{Keyword: "hardware", Label: "🔧"},
		{Keyword: "software", Label: "💻"},
		{Keyword: "mobile", Label: "📱"},
		{Keyword: "phone", Label: "📱"},
		{Keyword: "security", Label: "🔒"},
		{Keyword: "ai", Label: "🤖"},
		{Keyword: "artificial", Label: "🤖"},
		{Keyword: "review", Label: "⭐"},
		{Keyword: "deal", Label: "💰"},
	},
	Default: "🔧",
}

var rugbyCategoryIcons = feed.LabelTable{
	Rules: []feed.LabelRule{
		{Keyword: "rugby championship", Label: "🏆"},
		{Keyword: "six nations", Label: "🇪🇺"},
		{Keyword: "tournoi", Label: "🇪🇺"},
		{Keyword: "xv de france", Label: "🇫🇷"},
		{Keyword: "france", Label: "🇫🇷"},
		{Keyword: "world cup", Label: "🌍"},
		{Keyword: "coupe du monde", Label: "🌍"},
		{Keyword: "england", Label: "🏴󠁧󠁢󠁥󠁮󠁧󠁿"},
		{Keyword: "angleterre", Label: "🏴󠁧󠁢󠁥󠁮󠁧󠁿"},
		{Keyword: "ireland", Label: "🇮🇪"},
		{Keyword: "irlande", Label: "🇮🇪"},
		{Keyword: "scotland", Label: "🏴󠁧󠁢󠁳󠁣󠁴󠁿"},
		{Keyword: "ecosse", Label: "🏴󠁧󠁢󠁳󠁣󠁴󠁿"},
		{Keyword: "wales", Label: "🏴󠁧󠁢󠁷󠁬󠁳󠁿"},
		{Keyword: "pays de galles", Label: "🏴󠁧󠁢󠁷󠁬󠁳󠁿"},
		{Keyword: "italy", Label: "🇮🇹"},
		{Keyword: "italie", Label: "🇮🇹"},
		{Keyword: "south africa", Label: "🇿🇦"},
		{Keyword: "afrique du sud", Label: "🇿🇦"},
		{Keyword: "new zealand", Label: "🇳🇿"},
		{Keyword: "nouvelle-zélande", Label: "🇳🇿"},
		{Keyword: "all blacks", Label: "🇳🇿"},
		{Keyword: "australia", Label: "🇦🇺"},
		{Keyword: "australie", Label: "🇦🇺"},
		{Keyword: "wallabies", Label: "🇦🇺"},
		{Keyword: "argentina", Label: "🇦🇷"},
		{Keyword: "argentine", Label: "🇦🇷"},
		{Keyword: "pumas", Label: "🇦🇷"},
		{Keyword: "japan", Label: "🇯🇵"},
		{Keyword: "japon", Label: "🇯🇵"},
	},
	Default: "🏉",
}

var genreIcons = feed.LabelTable{
	Rules: []feed.LabelRule{
		{Keyword: "action", Label: "⚔️"},
		{Keyword: "adventure", Label: "🗺️"},
		{Keyword: "rpg", Label: "🧙‍♂️"},
		{Keyword: "strategy", Label: "♟️"},
		{Keyword: "shooter", Label: "🔫"},
		{Keyword: "sports", Label: "⚽"},
		{Keyword: "racing", Label: "🏎️"},
		{Keyword: "simulation", Label: "🎮"},
		{Keyword: "puzzle", Label: "🧩"},
		{Keyword: "horror", Label: "👻"},
	},
	Default: "🎮",
}

// CategoryIcon maps a tech news category to its icon glyph.
func CategoryIcon(category string) string {
	return techCategoryIcons.Lookup(category)
}

// RugbyCategoryIcon maps a rugby category to a tournament or nation flag.
func RugbyCategoryIcon(category string) string {
	return rugbyCategoryIcons.Lookup(category)
}

// GenreIcon maps a game genre to its icon glyph.
func GenreIcon(genre string) string {
	return genreIcons.Lookup(genre)
}

// SourceIcon maps a source name to its icon glyph.
func SourceIcon(source string) string {
	switch source {
	case "Eurogamer":
		return "🎮"
	case "Game Developer":
		return "📰"
	default:
		return "📄"
	}
}

// ScoreText maps a review score to its verdict label.
func ScoreText(score float64) string {
	switch {
	case score >= 9.0:
		return "Amazing"
	case score >= 8.0:
		return "Great"
	case score >= 7.0:
		return "Good"
	case score >= 6.0:
		return "Okay"
	case score >= 5.0:
		return "Mediocre"
	case score > 0:
		return "Bad"
	default:
		return "Not Scored"
	}
}

// ScoreColor maps a review score to a bootstrap color class.
func ScoreColor(score float64) string {
	switch {
	case score >= 9.0:
		return "success"
	case score >= 8.0:
		return "primary"
	case score >= 7.0:
		return "info"
	case score >= 6.0:
		return "warning"
	case score >= 5.0:
		return "secondary"
	case score > 0:
		return "danger"
	default:
		return "light"
	}
}

// TimeAgo renders the elapsed time since t as a coarse relative string.
func TimeAgo(t, now time.Time) string {
	elapsed := now.Sub(t)
	if days := int(elapsed.Hours() / 24); days > 0 {
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	}
	if hours := int(elapsed.Hours()); hours > 0 {
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	}
	if minutes := int(elapsed.Minutes()); minutes > 0 {
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	}
	return "Just now"
}

// BrewTime renders minutes and seconds as "m:ss".
func BrewTime(minutes, seconds int) string {
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
