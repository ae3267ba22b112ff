package feed

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/fkoidl/heimdeck/internal/domain"
	"github.com/fkoidl/heimdeck/internal/logger"
)

// Source describes one feed the pipeline knows how to ingest.
type Source struct {
	ID              string
	Name            string
	FeedURL         string
	Homepage        string
	BaseHost        string
	DefaultAuthor   string
	DefaultCategory string

	// Rules filter extracted records; an empty set admits everything.
	Rules RuleSet

	// Enrich, when set, runs on each accepted record with the raw item
	// block, so source-specific fields can be derived from text the
	// generic extractor does not model.
	Enrich func(rec *domain.Record, rawItem string)

	// Fallback is the synthetic template table used when every transport
	// and the snapshot cache come up empty.
	Fallback       []Template
	FallbackWindow time.Duration
}

// Snapshotter caches the last successfully fetched records per source.
type Snapshotter interface {
	Store(sourceID string, records []domain.Record) error
	Load(sourceID string) ([]domain.Record, error)
}

// Pipeline runs the shared ingestion sequence for any Source: resolve a
// transport, extract and normalize records, classify, then degrade to the
// snapshot cache or synthetic data when nothing live is reachable.
type Pipeline struct {
	resolver     *Resolver
	snaps        Snapshotter
	log          logger.Logger
	primaryProxy string
	backupProxy  string
	now          func() time.Time
}

// PipelineOption tweaks pipeline construction.
type PipelineOption func(*Pipeline)

// WithProxies sets the relay bases used by the transport resolver.
func WithProxies(primary, backup string) PipelineOption {
	return func(p *Pipeline) {
		p.primaryProxy = primary
		p.backupProxy = backup
	}
}

// WithSnapshots attaches a last-good record cache.
func WithSnapshots(s Snapshotter) PipelineOption {
	return func(p *Pipeline) { p.snaps = s }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline builds a Pipeline around the given resolver.
func NewPipeline(resolver *Resolver, log logger.Logger, opts ...PipelineOption) *Pipeline {
	if log == nil {
		log = logger.NopLogger{}
	}
	p := &Pipeline{
		resolver: resolver,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch runs the full pipeline for one source and returns up to count
// records sorted newest first. It never returns an error: total transport
// failure degrades to the snapshot cache and then to synthetic fallback
// data of the same shape.
func (p *Pipeline) Fetch(ctx context.Context, src Source, count int) []domain.Record {
	raw, err := p.resolver.Resolve(ctx, src.ID, ProxyAttempts(src.FeedURL, p.primaryProxy, p.backupProxy))
	if err == nil {
		records := p.parse(raw, src, count)
		if len(records) > 0 {
			p.snapshot(src, records)
			return records
		}
		p.log.WarnObj("live payload yielded no records", "parse_empty", map[string]any{
			"source": src.ID,
		})
	}

	return p.degrade(src, count)
}

// parse extracts, normalizes and classifies records from a raw payload,
// capping at count and sorting newest first.
func (p *Pipeline) parse(raw string, src Source, count int) []domain.Record {
	format := DetectFormat(raw)
	items := Items(raw, format)

	records := make([]domain.Record, 0, min(count, len(items)))
	for _, item := range items {
		if len(records) >= count {
			break
		}

		rec := p.extractRecord(item, format, src)
		if rec.Title == "" {
			continue
		}
		if !src.Rules.Match(rec.Title, rec.Description, strings.Join(rec.Categories, " ")) {
			continue
		}
		if src.Enrich != nil {
			src.Enrich(&rec, item)
		}
		records = append(records, rec)
	}

	sortByRecency(records)
	return records
}

// extractRecord maps one raw item block onto the shared record shape,
// substituting source defaults for every absent field.
func (p *Pipeline) extractRecord(item string, format Format, src Source) domain.Record {
	rec := domain.Record{
		Title:      Field(item, "title"),
		Source:     src.Name,
		Categories: Categories(item, src.DefaultCategory),
		Thumbnail:  ExtractImage(item, src.BaseHost),
	}

	if format == FormatAtom {
		rec.Description = CleanDescription(FirstField(item, "summary", "content"))
		rec.PublishedAt = NormalizeDate(FirstField(item, "published", "updated"))
	} else {
		rec.Description = CleanDescription(Field(item, "description"))
		rec.PublishedAt = NormalizeDate(Field(item, "pubDate"))
	}

	rec.Link = p.extractLink(item, format, src)
	rec.Author = extractAuthor(item, format, src)
	return rec
}

func (p *Pipeline) extractLink(item string, format Format, src Source) string {
	link := Field(item, "link")
	if format == FormatAtom && !strings.HasPrefix(link, "http") {
		link = AtomLink(item)
	}
	if link == "" {
		link = src.Homepage
	}
	return link
}

func extractAuthor(item string, format Format, src Source) string {
	author := FirstField(item, "dc:creator", "author")
	if format == FormatAtom && strings.Contains(author, "<name") {
		author = Field(author, "name")
	}
	// Nested markup that survived extraction is noise, not a byline.
	if strings.ContainsAny(author, "<>") || author == "" {
		author = src.DefaultAuthor
	}
	return author
}

// degrade serves the snapshot cache if one holds records for the source,
// otherwise synthesizes fallback data.
func (p *Pipeline) degrade(src Source, count int) []domain.Record {
	if p.snaps != nil {
		cached, err := p.snaps.Load(src.ID)
		if err != nil {
			p.log.WarnObj("snapshot load failed", "snapshot_error", map[string]any{
				"source": src.ID,
				"error":  err.Error(),
			})
		} else if len(cached) > 0 {
			p.log.InfoObj("serving snapshot records", "snapshot_hit", map[string]any{
				"source": src.ID,
				"count":  len(cached),
			})
			sortByRecency(cached)
			return cached[:min(count, len(cached))]
		}
	}

	p.log.InfoObj("serving synthetic fallback records", "fallback", map[string]any{
		"source": src.ID,
		"count":  min(count, len(src.Fallback)),
	})
	return GenerateFallback(src, count, p.now())
}

func (p *Pipeline) snapshot(src Source, records []domain.Record) {
	if p.snaps == nil {
		return
	}
	if err := p.snaps.Store(src.ID, records); err != nil {
		p.log.WarnObj("snapshot store failed", "snapshot_error", map[string]any{
			"source": src.ID,
			"error":  err.Error(),
		})
	}
}

// FetchAll runs the pipeline for several sources concurrently and merges
// the results. Every branch is waited for before merging; a slow source
// delays the aggregate but never drops a sibling's records. perSource caps
// each source before the merge; latest, when positive, caps the merged
// output after sorting.
func (p *Pipeline) FetchAll(ctx context.Context, sources []Source, perSource, latest int) []domain.Record {
	results := make([][]domain.Record, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = p.Fetch(ctx, src, perSource)
		}(i, src)
	}
	wg.Wait()

	merged := lo.Flatten(results)
	sortByRecency(merged)
	p.flagDuplicates(merged)

	if latest > 0 && len(merged) > latest {
		merged = merged[:latest]
	}
	return merged
}

func sortByRecency(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PublishedAt.After(records[j].PublishedAt)
	})
}

// flagDuplicates logs likely cross-source duplicates without touching the
// output; deduplication is intentionally not performed.
func (p *Pipeline) flagDuplicates(records []domain.Record) {
	seen := make(map[string]string, len(records))
	for _, rec := range records {
		key := strings.ToLower(strings.TrimSpace(rec.Title))
		if key == "" {
			continue
		}
		if other, dup := seen[key]; dup && other != rec.Source {
			p.log.DebugObj("cross-source duplicate title", "duplicate", map[string]any{
				"title":   rec.Title,
				"sources": []string{other, rec.Source},
			})
			continue
		}
		seen[key] = rec.Source
	}
}
