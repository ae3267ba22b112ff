package feed

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Format is the container style of a feed payload.
type Format int

// Supported feed container styles.
const (
	FormatRSS Format = iota
	FormatAtom
)

// DetectFormat classifies the payload once per fetch: entry-based documents
// are Atom, everything else is treated as item-based RSS.
func DetectFormat(payload string) Format {
	if strings.Contains(payload, "<entry") && !strings.Contains(payload, "<item") {
		return FormatAtom
	}
	return FormatRSS
}

var (
	rssItemRe  = regexp.MustCompile(`(?is)<item[^>]*>(.*?)</item>`)
	atomItemRe = regexp.MustCompile(`(?is)<entry[^>]*>(.*?)</entry>`)
	cdataRe    = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	tagRe      = regexp.MustCompile(`(?s)<.*?>`)
)

// Items splits the payload into raw item (or entry) blocks.
func Items(payload string, format Format) []string {
	re := rssItemRe
	if format == FormatAtom {
		re = atomItemRe
	}
	matches := re.FindAllStringSubmatch(payload, -1)
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, m[1])
	}
	return items
}

var (
	fieldReMu    sync.RWMutex
	fieldReCache = map[string]*regexp.Regexp{}
)

func fieldRe(name string) *regexp.Regexp {
	fieldReMu.RLock()
	re, ok := fieldReCache[name]
	fieldReMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(fmt.Sprintf(`(?is)<%s[^>]*>(.*?)</%s>`, regexp.QuoteMeta(name), regexp.QuoteMeta(name)))
	fieldReMu.Lock()
	fieldReCache[name] = re
	fieldReMu.Unlock()
	return re
}

// Field extracts the named tag's content from a raw item block, tolerating
// attributes on the opening tag. CDATA wrappers are stripped and HTML
// entities decoded. A missing field is the empty string; Field never fails.
func Field(item, name string) string {
	m := fieldRe(name).FindStringSubmatch(item)
	if m == nil {
		return ""
	}
	content := cdataRe.ReplaceAllString(m[1], "$1")
	return strings.TrimSpace(html.UnescapeString(content))
}

// FirstField returns the first non-empty extraction among the given names.
func FirstField(item string, names ...string) string {
	for _, name := range names {
		if v := Field(item, name); v != "" {
			return v
		}
	}
	return ""
}

var atomLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<link[^>]+href=["']([^"']+)["'][^>]*rel=["']alternate["'][^>]*>`),
	regexp.MustCompile(`(?i)<link[^>]+rel=["']alternate["'][^>]+href=["']([^"']+)["'][^>]*>`),
	regexp.MustCompile(`(?i)<link[^>]+href=["']([^"']+)["'][^>]*>`),
	regexp.MustCompile(`(?i)<id[^>]*>([^<]+)</id>`),
}

// AtomLink searches the alternate link representations used by entry-based
// feeds, falling back to the id field. Only absolute http(s) URLs qualify.
func AtomLink(item string) string {
	for _, re := range atomLinkPatterns {
		m := re.FindStringSubmatch(item)
		if m == nil {
			continue
		}
		u := strings.TrimSpace(html.UnescapeString(m[1]))
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return u
		}
	}
	return ""
}

var (
	mediaImagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<media:content[^>]+url=["']([^"']+)["'][^>]*medium=["']image["'][^>]*>`),
		regexp.MustCompile(`(?i)<media:thumbnail[^>]+url=["']([^"']+)["'][^>]*>`),
	}
	enclosurePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<enclosure[^>]+type=["']image/[^"']*["'][^>]+url=["']([^"']+)["'][^>]*>`),
		regexp.MustCompile(`(?i)<enclosure[^>]+url=["']([^"']+)["'][^>]*type=["']image/[^"']*["'][^>]*>`),
	}
	anyMediaContentRe = regexp.MustCompile(`(?i)<media:content[^>]+url=["']([^"']+)["'][^>]*>`)

	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp"}
)

// embeddedHTMLFields are the item fields whose decoded content may carry
// inline markup with usable images.
var embeddedHTMLFields = []string{"content:encoded", "description", "content", "summary"}

// ExtractImage finds a thumbnail candidate for the item, in priority order:
// media-specific tags, images embedded in HTML content fields, image-typed
// enclosures, then any media:content tag. Candidates carrying avatar/icon
// markers are rejected; protocol-relative and root-relative URLs are
// normalized against the source's base host.
func ExtractImage(item, baseHost string) string {
	for _, re := range mediaImagePatterns {
		if u := imageCandidate(re, item, baseHost); u != "" {
			return u
		}
	}

	for _, field := range embeddedHTMLFields {
		content := Field(item, field)
		if content == "" || !strings.Contains(content, "<img") {
			continue
		}
		if u := embeddedImage(content, baseHost); u != "" {
			return u
		}
	}

	for _, re := range enclosurePatterns {
		if u := imageCandidate(re, item, baseHost); u != "" {
			return u
		}
	}

	return imageCandidate(anyMediaContentRe, item, baseHost)
}

func imageCandidate(re *regexp.Regexp, item, baseHost string) string {
	m := re.FindStringSubmatch(item)
	if m == nil {
		return ""
	}
	return normalizeImageURL(m[1], baseHost)
}

// embeddedImage walks the decoded HTML fragment and returns the first image
// source that survives the candidate checks.
func embeddedImage(content, baseHost string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	found := ""
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok {
			return true
		}
		if u := normalizeImageURL(src, baseHost); u != "" {
			found = u
			return false
		}
		return true
	})
	return found
}

func normalizeImageURL(raw, baseHost string) string {
	u := strings.TrimSpace(html.UnescapeString(raw))
	if u == "" || !isImageURL(u) {
		return ""
	}

	lower := strings.ToLower(u)
	if strings.Contains(lower, "avatar") || strings.Contains(lower, "icon") {
		return ""
	}

	switch {
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		return u
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/") && baseHost != "":
		return "https://" + baseHost + u
	}
	return ""
}

func isImageURL(u string) bool {
	lower := strings.ToLower(u)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return strings.Contains(lower, "image") ||
		strings.Contains(lower, "photo") ||
		strings.Contains(lower, "picture")
}

var (
	categoryRe     = regexp.MustCompile(`(?i)<category[^>]*>([^<]+)</category>`)
	categoryTermRe = regexp.MustCompile(`(?i)<category[^>]+term=["']([^"']+)["'][^>]*>`)
)

// Categories collects every repeated category-like tag on the item. When
// none are present the source-derived fallback becomes the single tag, so a
// record's category set is never empty.
func Categories(item, fallback string) []string {
	var out []string
	seen := map[string]struct{}{}

	add := func(raw string) {
		c := strings.TrimSpace(html.UnescapeString(raw))
		if c == "" {
			return
		}
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	for _, m := range categoryRe.FindAllStringSubmatch(item, -1) {
		add(m[1])
	}
	for _, m := range categoryTermRe.FindAllStringSubmatch(item, -1) {
		add(m[1])
	}

	if len(out) == 0 && fallback != "" {
		out = append(out, fallback)
	}
	return out
}

const maxDescriptionLen = 250

// CleanDescription strips markup from a description, decodes entities and
// caps the length for display.
func CleanDescription(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	cleaned := tagRe.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(html.UnescapeString(cleaned))
	// Cap by rune, not byte, so accented text is never cut mid-character.
	if runes := []rune(cleaned); len(runes) > maxDescriptionLen {
		cleaned = string(runes[:maxDescriptionLen]) + "..."
	}
	return strings.TrimSpace(cleaned)
}
