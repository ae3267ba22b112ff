package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fkoidl/heimdeck/internal/domain"
)

type memSnapshotter struct {
	records map[string][]domain.Record
	failing bool
}

func (m *memSnapshotter) Store(sourceID string, records []domain.Record) error {
	if m.failing {
		return fmt.Errorf("store unavailable")
	}
	if m.records == nil {
		m.records = map[string][]domain.Record{}
	}
	m.records[sourceID] = records
	return nil
}

func (m *memSnapshotter) Load(sourceID string) ([]domain.Record, error) {
	if m.failing {
		return nil, fmt.Errorf("store unavailable")
	}
	return m.records[sourceID], nil
}

func testSource() Source {
	return Source{
		ID:              "demo",
		Name:            "Demo Source",
		FeedURL:         "https://demo.test/feed",
		Homepage:        "https://demo.test",
		DefaultAuthor:   "Demo Desk",
		DefaultCategory: "Demo",
		Fallback: []Template{
			{Title: "Placeholder one"},
			{Title: "Placeholder two"},
		},
	}
}

func pipelineWith(body string, snaps Snapshotter) *Pipeline {
	client := &stubClient{
		responses: map[string]stubResponse{
			"https://demo.test/feed": {code: 200, body: []byte(body)},
		},
	}
	opts := []PipelineOption{}
	if snaps != nil {
		opts = append(opts, WithSnapshots(snaps))
	}
	return NewPipeline(NewResolver(client, nil), nil, opts...)
}

func TestFetchExtractsRecords(t *testing.T) {
	body := `<rss><channel>
		<item>
			<title>A &amp; B</title>
			<pubDate>Wed, 02 Oct 2024 10:00:00 +0000</pubDate>
		</item>
	</channel></rss>`

	snaps := &memSnapshotter{}
	p := pipelineWith(body, snaps)

	records := p.Fetch(context.Background(), testSource(), 10)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Title != "A & B" {
		t.Errorf("title = %q, want %q", rec.Title, "A & B")
	}
	want := time.Date(2024, 10, 2, 10, 0, 0, 0, time.UTC)
	if !rec.PublishedAt.UTC().Equal(want) {
		t.Errorf("published = %v, want %v", rec.PublishedAt.UTC(), want)
	}
	if rec.Link != "https://demo.test" {
		t.Errorf("absent link should fall back to homepage, got %q", rec.Link)
	}
	if rec.Author != "Demo Desk" {
		t.Errorf("absent author should fall back to default, got %q", rec.Author)
	}
	if diff := cmp.Diff([]string{"Demo"}, rec.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if rec.Synthetic() {
		t.Error("live record flagged synthetic")
	}

	if len(snaps.records["demo"]) != 1 {
		t.Errorf("successful fetch should snapshot records, cache holds %d", len(snaps.records["demo"]))
	}
}

func TestFetchDiscardsTitlelessItems(t *testing.T) {
	body := `<rss>
		<item><description>no title here</description></item>
		<item><title>Kept</title></item>
	</rss>`

	p := pipelineWith(body, nil)
	records := p.Fetch(context.Background(), testSource(), 10)
	if len(records) != 1 || records[0].Title != "Kept" {
		t.Fatalf("expected only the titled item, got %+v", records)
	}
}

func TestFetchAppliesRules(t *testing.T) {
	body := `<rss>
		<item><title>Six Nations preview</title></item>
		<item><title>France win Top 14 final</title></item>
		<item><title>Transfer gossip</title></item>
	</rss>`

	src := testSource()
	src.Rules = RuleSet{
		Allow: []string{"six nations", "france"},
		Deny:  []string{"top 14"},
	}

	p := pipelineWith(body, nil)
	records := p.Fetch(context.Background(), src, 10)
	if len(records) != 1 {
		t.Fatalf("expected 1 record after filtering, got %d", len(records))
	}
	if records[0].Title != "Six Nations preview" {
		t.Errorf("wrong record survived: %q", records[0].Title)
	}
}

func TestFetchRunsEnrichHook(t *testing.T) {
	body := `<rss><item><title>Game review</title><description>Score: 9.5</description></item></rss>`

	src := testSource()
	src.Enrich = EnrichReview

	p := pipelineWith(body, nil)
	records := p.Fetch(context.Background(), src, 10)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Meta["score"] != "9.5" {
		t.Errorf("enrich hook did not run, meta = %v", records[0].Meta)
	}
}

func TestFetchServesSnapshotOnTransportFailure(t *testing.T) {
	cached := []domain.Record{
		{Title: "older", PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "newer", PublishedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	snaps := &memSnapshotter{records: map[string][]domain.Record{"demo": cached}}

	client := &stubClient{}
	p := NewPipeline(NewResolver(client, nil), nil, WithSnapshots(snaps))

	records := p.Fetch(context.Background(), testSource(), 1)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Title != "newer" {
		t.Errorf("snapshot records not sorted newest first: %q", records[0].Title)
	}
}

func TestFetchFallsBackToSyntheticRecords(t *testing.T) {
	client := &stubClient{}
	p := NewPipeline(NewResolver(client, nil), nil)

	records := p.Fetch(context.Background(), testSource(), 10)
	if len(records) != 2 {
		t.Fatalf("expected the full 2-entry fallback table, got %d", len(records))
	}
	for _, rec := range records {
		if !rec.Synthetic() {
			t.Errorf("fallback record %q not flagged synthetic", rec.Title)
		}
	}
}

func TestFetchDegradesOnEmptyParse(t *testing.T) {
	// A payload with a feed marker but no extractable items degrades the
	// same way a transport failure does.
	p := pipelineWith(`<rss><channel><title>empty</title></channel></rss>`, nil)

	records := p.Fetch(context.Background(), testSource(), 10)
	if len(records) != 2 {
		t.Fatalf("expected fallback records, got %d", len(records))
	}
	if !records[0].Synthetic() {
		t.Error("expected synthetic records")
	}
}

func TestFetchAllMergesAndCaps(t *testing.T) {
	bodyA := `<rss>
		<item><title>A1</title><pubDate>Wed, 02 Oct 2024 10:00:00 +0000</pubDate></item>
		<item><title>A2</title><pubDate>Tue, 01 Oct 2024 10:00:00 +0000</pubDate></item>
	</rss>`
	bodyB := `<rss>
		<item><title>B1</title><pubDate>Thu, 03 Oct 2024 10:00:00 +0000</pubDate></item>
		<item><title>B2</title><pubDate>Mon, 30 Sep 2024 10:00:00 +0000</pubDate></item>
	</rss>`

	client := &stubClient{
		responses: map[string]stubResponse{
			"https://a.test/feed": {code: 200, body: []byte(bodyA)},
			"https://b.test/feed": {code: 200, body: []byte(bodyB)},
		},
	}
	p := NewPipeline(NewResolver(client, nil), nil)

	srcA := testSource()
	srcA.ID, srcA.FeedURL = "a", "https://a.test/feed"
	srcB := testSource()
	srcB.ID, srcB.FeedURL = "b", "https://b.test/feed"

	records := p.FetchAll(context.Background(), []Source{srcA, srcB}, 10, 3)
	if len(records) != 3 {
		t.Fatalf("expected latest cap of 3, got %d", len(records))
	}

	titles := []string{records[0].Title, records[1].Title, records[2].Title}
	if diff := cmp.Diff([]string{"B1", "A1", "A2"}, titles); diff != "" {
		t.Errorf("merge order mismatch (-want +got):\n%s", diff)
	}

	for i := 1; i < len(records); i++ {
		if records[i].PublishedAt.After(records[i-1].PublishedAt) {
			t.Errorf("records not in non-increasing publish order at %d", i)
		}
	}
}

func TestFetchAllPerSourceCapBeforeMerge(t *testing.T) {
	body := `<rss>
		<item><title>one</title><pubDate>Wed, 02 Oct 2024 10:00:00 +0000</pubDate></item>
		<item><title>two</title><pubDate>Tue, 01 Oct 2024 10:00:00 +0000</pubDate></item>
		<item><title>three</title><pubDate>Mon, 30 Sep 2024 10:00:00 +0000</pubDate></item>
	</rss>`

	p := pipelineWith(body, nil)
	records := p.FetchAll(context.Background(), []Source{testSource()}, 2, 0)
	if len(records) != 2 {
		t.Fatalf("per-source cap not applied before merge, got %d records", len(records))
	}
}
