// Package pipeline sequences one full pass over the feed catalog: freshness
// and relevance gating, canonical resolution, multi-layer dedup, enrichment
// and dispatch, recording every dispatched item before the next one is
// considered.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/platcorn/newsbot/internal/config"
	"github.com/platcorn/newsbot/internal/dedup"
	"github.com/platcorn/newsbot/internal/feeds"
	"github.com/platcorn/newsbot/internal/freshness"
	"github.com/platcorn/newsbot/internal/gemini"
	"github.com/platcorn/newsbot/internal/links"
	"github.com/platcorn/newsbot/internal/logger"
	"github.com/platcorn/newsbot/internal/metrics"
	"github.com/platcorn/newsbot/internal/relevance"
	"github.com/platcorn/newsbot/internal/store"
	"github.com/platcorn/newsbot/internal/summary"
	"github.com/platcorn/newsbot/internal/telegram"
)

// FeedSource pulls items from one feed; failures yield an empty slice.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL, category string) []feeds.Item
}

// ArticleFetcher resolves an article's text and canonical URL, best effort.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (text, canonical string)
}

// Translator renders text in the target language, returning the input on
// failure.
type Translator interface {
	Translate(ctx context.Context, text string, isTitle bool) string
}

// AIEnricher is the optional one-call summarize+translate backend.
type AIEnricher interface {
	Enrich(ctx context.Context, title, content string) (*gemini.Enrichment, error)
}

// Notifier delivers one formatted message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Deps lists the pipeline collaborators. Clock and Sleep are injectable for
// tests; nil means the real ones. Enricher may be nil (extractive path only).
type Deps struct {
	Source     FeedSource
	Fetcher    ArticleFetcher
	Translator Translator
	Enricher   AIEnricher
	Notifier   Notifier
	Store      store.Store
	Snapshot   *store.LinkSnapshot
	Clock      func() time.Time
	Sleep      func(time.Duration)
}

// Pipeline executes runs against an immutable catalog and config.
type Pipeline struct {
	cfg     *config.Config
	catalog *feeds.Catalog

	source     FeedSource
	fetcher    ArticleFetcher
	translator Translator
	enricher   AIEnricher
	notifier   Notifier
	store      store.Store
	snapshot   *store.LinkSnapshot

	filters map[string]*relevance.Filter // per category name
	gate    *freshness.Gate
	sleep   func(time.Duration)
}

// Report summarizes one run.
type Report struct {
	Processed  int
	Stale      int
	Irrelevant int
	Duplicates int
	Dispatched int
	Failures   int
}

// New wires a pipeline. Relevance filters are compiled once per category.
func New(cfg *config.Config, catalog *feeds.Catalog, deps Deps) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	sleep := deps.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	filters := make(map[string]*relevance.Filter, len(catalog.Categories))
	for _, cat := range catalog.Categories {
		filters[cat.Name] = relevance.NewFilter(catalog.CoreKeywords, cat.Keywords)
	}

	return &Pipeline{
		cfg:        cfg,
		catalog:    catalog,
		source:     deps.Source,
		fetcher:    deps.Fetcher,
		translator: deps.Translator,
		enricher:   deps.Enricher,
		notifier:   deps.Notifier,
		store:      deps.Store,
		snapshot:   deps.Snapshot,
		filters:    filters,
		gate:       freshness.NewGate(cfg.MaxItemAge, cfg.MinFreshWindow, clock),
		sleep:      sleep,
	}
}

// RunOnce executes one sequential pass over every feed in the catalog.
// Per-item failures are logged and skipped; a store failure aborts the run.
func (p *Pipeline) RunOnce(ctx context.Context) (Report, error) {
	started := time.Now()
	runState := dedup.NewRunState()
	var report Report

	for _, cat := range p.catalog.Categories {
		for _, feedURL := range cat.Feeds {
			items := p.source.Fetch(ctx, feedURL, cat.Name)
			for i := range items {
				report.Processed++
				metrics.Global.IncProcessed()

				if err := p.processItem(ctx, &items[i], runState, &report); err != nil {
					if errors.Is(err, store.ErrPersistence) {
						metrics.Global.SetError(err.Error())
						return report, fmt.Errorf("run aborted: %w", err)
					}
					report.Failures++
					logger.Error("item failed", "title", items[i].Title, "error", err)
				}
			}
		}
	}

	if p.snapshot != nil {
		if err := p.snapshot.Save(); err != nil {
			logger.Warn("link snapshot save failed", "error", err)
		}
	}

	metrics.Global.RecordRun(time.Since(started))
	logger.Info("run finished",
		"processed", report.Processed,
		"dispatched", report.Dispatched,
		"duplicates", report.Duplicates,
		"irrelevant", report.Irrelevant,
		"stale", report.Stale,
	)
	return report, nil
}

// processItem applies the gates in cheapest-first order, then enriches,
// dispatches and records. Only store errors propagate; everything else
// degrades per collaborator.
func (p *Pipeline) processItem(ctx context.Context, item *feeds.Item, runState *dedup.RunState, report *Report) error {
	if !p.gate.Fresh(item.Published) {
		report.Stale++
		metrics.Global.IncStale()
		return nil
	}

	filter := p.filters[item.Category]
	if filter == nil {
		return fmt.Errorf("no filter for category %q", item.Category)
	}

	// Title-only relevance first: a title that misses the core gate can
	// never be dispatched, so the article fetch is skipped for it. When
	// body search is off the extended gate is title-only too.
	if !filter.MatchesCore(item.Title) {
		report.Irrelevant++
		metrics.Global.IncIrrelevant()
		return nil
	}
	if !p.cfg.SearchBody && !filter.MatchesExtended(item.Title) {
		report.Irrelevant++
		metrics.Global.IncIrrelevant()
		return nil
	}

	normalized := links.Normalize(item.Link)

	// Canonicalization is only known after fetching, so the fetch has to
	// precede the link-identity checks.
	text, canonical := p.fetcher.Fetch(ctx, item.Link)
	primary := normalized
	if canonical != "" {
		if c := links.Normalize(canonical); c != "" {
			primary = c
		}
	}

	if runState.SeenLink(primary) || runState.SeenLink(normalized) {
		report.Duplicates++
		metrics.Global.IncDuplicate()
		return nil
	}
	linkSeen, err := p.store.LinkSeen(primary, normalized)
	if err != nil {
		return err
	}
	if linkSeen {
		report.Duplicates++
		metrics.Global.IncDuplicate()
		return nil
	}

	publisher := links.Publisher(primary, p.catalog.Publishers)
	looseKey := dedup.TitleKey(publisher, dedup.LooseFingerprint(item.Title))
	aggressiveKey := dedup.TitleKey(publisher, dedup.AggressiveFingerprint(item.Title))

	if runState.SeenTitle(looseKey) {
		report.Duplicates++
		metrics.Global.IncDuplicate()
		return nil
	}
	titleSeen, err := p.store.TitleSeen(aggressiveKey, p.cfg.TitleTTL)
	if err != nil {
		return err
	}
	if titleSeen {
		report.Duplicates++
		metrics.Global.IncDuplicate()
		return nil
	}

	if p.cfg.SearchBody {
		searchText := text
		if searchText == "" {
			searchText = item.Title
		}
		if !filter.MatchesExtended(searchText) {
			report.Irrelevant++
			metrics.Global.IncIrrelevant()
			return nil
		}
	}

	id := dedup.StableID(primary, item.Published, item.RawID, item.Title)
	idSeen, err := p.store.SeenID(id)
	if err != nil {
		return err
	}
	if idSeen {
		report.Duplicates++
		metrics.Global.IncDuplicate()
		return nil
	}

	titleOut, bodyOut := p.enrich(ctx, item, text)

	msg := telegram.ComposeMessage(telegram.Message{
		Category:  item.Category,
		Title:     titleOut,
		Publisher: publisher,
		Host:      links.Host(primary),
		Body:      bodyOut,
		Link:      primary,
	})
	if err := p.notifier.Send(ctx, msg); err != nil {
		// Not marked seen: the item stays eligible for the next run.
		logger.Error("dispatch failed", "title", item.Title, "error", err)
		report.Failures++
		return nil
	}

	// Record every namespace before the next item so a second feed carrying
	// the same story later in this run cannot dispatch it again.
	if err := p.store.MarkSeen(store.Record{ID: id, Title: item.Title, Link: primary, Category: item.Category}); err != nil {
		return err
	}
	markLinks := []string{primary}
	if normalized != primary {
		markLinks = append(markLinks, normalized)
	}
	if err := p.store.MarkLinks(markLinks...); err != nil {
		return err
	}
	if err := p.store.MarkTitle(aggressiveKey); err != nil {
		return err
	}
	runState.MarkLink(primary)
	runState.MarkLink(normalized)
	runState.MarkTitle(looseKey)
	if p.snapshot != nil {
		p.snapshot.Add(markLinks...)
	}

	report.Dispatched++
	metrics.Global.IncDispatched()
	logger.Info("dispatched", "title", item.Title, "publisher", publisher, "link", primary)

	// Throttle between dispatches for the downstream channel's rate limit.
	p.sleep(p.cfg.DispatchDelay)
	return nil
}

// enrich builds the outgoing title and body. Text source priority: full
// article text, then feed summary, then feed description. Every failure
// falls back toward the original text; enrichment never drops an item.
func (p *Pipeline) enrich(ctx context.Context, item *feeds.Item, articleText string) (title, body string) {
	base := articleText
	if base == "" {
		base = item.Summary
	}
	if base == "" {
		base = item.Description
	}
	base = stripHTML(base)

	if p.enricher != nil {
		e, err := p.enricher.Enrich(ctx, item.Title, base)
		if err == nil {
			return e.TitleTR, e.SummaryTR
		}
		metrics.Global.IncEnrichmentFailure()
		logger.Warn("ai enrichment failed, using extractive path", "error", err)
	}

	condensed := summary.Summarize(base, p.cfg.SummarySentences)

	title = item.Title
	if p.cfg.TranslateTitles {
		title = p.translator.Translate(ctx, item.Title, true)
	}
	body = condensed
	if p.cfg.TranslateSummaries {
		body = p.translator.Translate(ctx, condensed, false)
	}
	return title, summary.Bullets(body)
}

var htmlTags = regexp.MustCompile(`<[^>]+>`)

func stripHTML(s string) string {
	return strings.Join(strings.Fields(htmlTags.ReplaceAllString(s, " ")), " ")
}
