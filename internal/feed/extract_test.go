package feed

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Format
	}{
		{"rss items", `<rss><item></item></rss>`, FormatRSS},
		{"atom entries", `<feed><entry></entry></feed>`, FormatAtom},
		{"mixed leans rss", `<feed><item></item><entry></entry></feed>`, FormatRSS},
		{"neither", `<html></html>`, FormatRSS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.payload); got != tt.want {
				t.Errorf("DetectFormat = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItems(t *testing.T) {
	payload := `<rss><item><title>one</title></item><item><title>two</title></item></rss>`
	items := Items(payload, FormatRSS)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if Field(items[1], "title") != "two" {
		t.Errorf("second item title = %q", Field(items[1], "title"))
	}
}

func TestField(t *testing.T) {
	tests := []struct {
		name string
		item string
		tag  string
		want string
	}{
		{
			name: "entity decoding",
			item: `<title>A &amp; B</title>`,
			tag:  "title",
			want: "A & B",
		},
		{
			name: "cdata wrapper",
			item: `<description><![CDATA[<b>Breaking</b> news]]></description>`,
			tag:  "description",
			want: "<b>Breaking</b> news",
		},
		{
			name: "attributes on opening tag",
			item: `<content type="html">body</content>`,
			tag:  "content",
			want: "body",
		},
		{
			name: "missing field",
			item: `<title>x</title>`,
			tag:  "description",
			want: "",
		},
		{
			name: "surrounding whitespace",
			item: "<title>\n  spaced out  \n</title>",
			tag:  "title",
			want: "spaced out",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Field(tt.item, tt.tag); got != tt.want {
				t.Errorf("Field = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFirstField(t *testing.T) {
	item := `<summary></summary><content>fallback body</content>`
	if got := FirstField(item, "summary", "content"); got != "fallback body" {
		t.Errorf("FirstField = %q", got)
	}
}

func TestAtomLink(t *testing.T) {
	tests := []struct {
		name string
		item string
		want string
	}{
		{
			name: "href then rel alternate",
			item: `<link href="https://example.com/a" rel="alternate"/>`,
			want: "https://example.com/a",
		},
		{
			name: "rel alternate then href",
			item: `<link rel="alternate" href="https://example.com/b"/>`,
			want: "https://example.com/b",
		},
		{
			name: "plain href",
			item: `<link href="https://example.com/c"/>`,
			want: "https://example.com/c",
		},
		{
			name: "id fallback",
			item: `<id>https://example.com/d</id>`,
			want: "https://example.com/d",
		},
		{
			name: "relative url rejected",
			item: `<link href="/articles/1" rel="alternate"/>`,
			want: "",
		},
		{
			name: "urn id rejected",
			item: `<id>urn:uuid:1225c695-cfb8</id>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AtomLink(tt.item); got != tt.want {
				t.Errorf("AtomLink = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractImage(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		baseHost string
		want     string
	}{
		{
			name: "media content image wins",
			item: `<media:content url="https://cdn.test/pic.jpg" medium="image"/>` +
				`<enclosure type="image/png" url="https://cdn.test/other.png"/>`,
			want: "https://cdn.test/pic.jpg",
		},
		{
			name: "media thumbnail",
			item: `<media:thumbnail url="https://cdn.test/thumb.png"/>`,
			want: "https://cdn.test/thumb.png",
		},
		{
			name: "embedded img in description",
			item: `<description><![CDATA[<p>text</p><img src="https://cdn.test/inline.webp">]]></description>`,
			want: "https://cdn.test/inline.webp",
		},
		{
			name: "image enclosure",
			item: `<enclosure type="image/jpeg" url="https://cdn.test/enc.jpg"/>`,
			want: "https://cdn.test/enc.jpg",
		},
		{
			name: "avatar rejected",
			item: `<media:thumbnail url="https://cdn.test/avatar.png"/>`,
			want: "",
		},
		{
			name: "protocol relative normalized",
			item: `<media:thumbnail url="//cdn.test/pic.jpg"/>`,
			want: "https://cdn.test/pic.jpg",
		},
		{
			name:     "root relative uses base host",
			item:     `<media:thumbnail url="/images/pic.jpg"/>`,
			baseHost: "example.com",
			want:     "https://example.com/images/pic.jpg",
		},
		{
			name: "non image url rejected",
			item: `<media:thumbnail url="https://cdn.test/clip.mp4"/>`,
			want: "",
		},
		{
			name: "no candidates",
			item: `<title>plain</title>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractImage(tt.item, tt.baseHost); got != tt.want {
				t.Errorf("ExtractImage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		fallback string
		want     []string
	}{
		{
			name:     "rss categories deduped",
			item:     `<category>Tech</category><category>Tech</category><category>AI</category>`,
			fallback: "News",
			want:     []string{"Tech", "AI"},
		},
		{
			name:     "atom term attributes",
			item:     `<category term="gaming"/><category term="reviews"/>`,
			fallback: "News",
			want:     []string{"gaming", "reviews"},
		},
		{
			name:     "fallback when empty",
			item:     `<title>x</title>`,
			fallback: "Tech News",
			want:     []string{"Tech News"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categories(tt.item, tt.fallback)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Categories mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcdefghij"
	}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"strips tags", `<p>Hello <b>world</b></p>`, "Hello world"},
		{"decodes entities", `Fish &amp; chips`, "Fish & chips"},
		{"blank input", "   ", ""},
		{"caps long text", long, long[:250] + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanDescription(tt.raw); got != tt.want {
				t.Errorf("CleanDescription = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanDescriptionCapsOnRuneBoundary(t *testing.T) {
	// Accented text crossing the cap, as French feed descriptions do.
	raw := strings.Repeat("a", 249) + strings.Repeat("é", 6)

	got := CleanDescription(raw)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated output is not valid UTF-8: %q", got)
	}
	want := strings.Repeat("a", 249) + "é..."
	if got != want {
		t.Errorf("CleanDescription = %q, want %q", got, want)
	}

	accented := strings.Repeat("é", 300)
	got = CleanDescription(accented)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated output is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("é", 250) + "..."; got != want {
		t.Errorf("rune count cap = %d runes, want 250 plus ellipsis", utf8.RuneCountInString(got)-3)
	}
}
