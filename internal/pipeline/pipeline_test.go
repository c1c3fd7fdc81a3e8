package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/platcorn/newsbot/internal/config"
	"github.com/platcorn/newsbot/internal/feeds"
	"github.com/platcorn/newsbot/internal/store"
)

type fakeSource struct {
	byFeed map[string][]feeds.Item
}

func (s *fakeSource) Fetch(_ context.Context, feedURL, category string) []feeds.Item {
	items := s.byFeed[feedURL]
	out := make([]feeds.Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].Category = category
		out[i].FeedURL = feedURL
	}
	return out
}

type fakeFetcher struct {
	canonical map[string]string // raw link -> canonical URL
	text      map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, string) {
	return f.text[url], f.canonical[url]
}

type fakeTranslator struct{}

func (fakeTranslator) Translate(_ context.Context, text string, _ bool) string { return text }

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, text)
	return nil
}

// memStore is an in-memory store.Store with the same insert-if-absent and
// logical-TTL semantics as the SQL stores.
type memStore struct {
	ids     map[string]store.Record
	links   map[string]bool
	titles  map[string]time.Time
	failing bool
}

func newMemStore() *memStore {
	return &memStore{
		ids:    make(map[string]store.Record),
		links:  make(map[string]bool),
		titles: make(map[string]time.Time),
	}
}

func (m *memStore) SeenID(id string) (bool, error) {
	if m.failing {
		return false, fmt.Errorf("query: %w", store.ErrPersistence)
	}
	_, ok := m.ids[id]
	return ok, nil
}

func (m *memStore) MarkSeen(rec store.Record) error {
	if m.failing {
		return fmt.Errorf("insert: %w", store.ErrPersistence)
	}
	if _, ok := m.ids[rec.ID]; !ok {
		m.ids[rec.ID] = rec
	}
	return nil
}

func (m *memStore) LinkSeen(links ...string) (bool, error) {
	if m.failing {
		return false, fmt.Errorf("query: %w", store.ErrPersistence)
	}
	for _, l := range links {
		if m.links[l] {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) MarkLinks(links ...string) error {
	for _, l := range links {
		m.links[l] = true
	}
	return nil
}

func (m *memStore) TitleSeen(key string, ttl time.Duration) (bool, error) {
	ts, ok := m.titles[key]
	if !ok {
		return false, nil
	}
	return time.Since(ts) <= ttl, nil
}

func (m *memStore) MarkTitle(key string) error {
	if _, ok := m.titles[key]; !ok {
		m.titles[key] = time.Now()
	}
	return nil
}

func (m *memStore) Close() error { return nil }

func testCatalog() *feeds.Catalog {
	return &feeds.Catalog{
		CoreKeywords: []string{"twitch", "youtube", "mrbeast"},
		Publishers:   map[string]string{"www.dexerto.com": "Dexerto"},
		Categories: []feeds.Category{
			{Name: "Creator", Feeds: []string{"feed-a", "feed-b"}},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		TitleTTL:           72 * time.Hour,
		MaxItemAge:         24 * time.Hour,
		SummarySentences:   2,
		TranslateTitles:    true,
		TranslateSummaries: true,
	}
}

func item(rawID, link, title string, published time.Time) feeds.Item {
	return feeds.Item{
		RawID:     rawID,
		Link:      link,
		Title:     title,
		Published: published,
		Summary:   "Summary of " + title + ".",
	}
}

func buildPipeline(cfg *config.Config, st store.Store, notifier Notifier, source FeedSource, fetcher ArticleFetcher) *Pipeline {
	if fetcher == nil {
		fetcher = &fakeFetcher{}
	}
	return New(cfg, testCatalog(), Deps{
		Source:     source,
		Fetcher:    fetcher,
		Translator: fakeTranslator{},
		Notifier:   notifier,
		Store:      st,
		Sleep:      func(time.Duration) {},
	})
}

func TestSecondRunDispatchesNothing(t *testing.T) {
	now := time.Now()
	src := &fakeSource{byFeed: map[string][]feeds.Item{
		"feed-a": {
			item("g1", "https://www.dexerto.com/a", "Twitch changes its payout split", now),
			item("g2", "https://www.dexerto.com/b", "MrBeast opens a new studio", now),
		},
	}}
	st := newMemStore()
	notifier := &fakeNotifier{}
	p := buildPipeline(testConfig(), st, notifier, src, nil)

	report, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if report.Dispatched != 2 {
		t.Fatalf("first run dispatched = %d, want 2", report.Dispatched)
	}

	report, err = p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Dispatched != 0 {
		t.Errorf("second run dispatched = %d, want 0", report.Dispatched)
	}
	if report.Duplicates != 2 {
		t.Errorf("second run duplicates = %d, want 2", report.Duplicates)
	}
	if len(notifier.sent) != 2 {
		t.Errorf("total messages sent = %d, want 2", len(notifier.sent))
	}
}

func TestSameCanonicalAcrossFeedsDispatchesOnce(t *testing.T) {
	now := time.Now()
	src := &fakeSource{byFeed: map[string][]feeds.Item{
		"feed-a": {item("g1", "https://www.dexerto.com/story?utm_source=rss", "Twitch raises subscription prices", now)},
		"feed-b": {item("g2", "https://syndicated.example.com/mirror/story", "Twitch raises subscription prices again", now)},
	}}
	fetcher := &fakeFetcher{canonical: map[string]string{
		"https://syndicated.example.com/mirror/story": "https://www.dexerto.com/story",
	}}
	st := newMemStore()
	notifier := &fakeNotifier{}
	p := buildPipeline(testConfig(), st, notifier, src, fetcher)

	report, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Dispatched != 1 {
		t.Errorf("dispatched = %d, want 1", report.Dispatched)
	}
	if report.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", report.Duplicates)
	}
}

func TestSeenLinkBlocksEditedRepublish(t *testing.T) {
	now := time.Now()
	st := newMemStore()
	notifier := &fakeNotifier{}

	src := &fakeSource{byFeed: map[string][]feeds.Item{
		"feed-a": {item("g1", "https://www.dexerto.com/story", "Twitch announces a new program", now)},
	}}
	p := buildPipeline(testConfig(), st, notifier, src, nil)
	if _, err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Same URL republished with a new guid and a reworded title.
	src2 := &fakeSource{byFeed: map[string][]feeds.Item{
		"feed-a": {item("g1-rev2", "https://www.dexerto.com/story", "Twitch unveils its brand new program", now)},
	}}
	p2 := buildPipeline(testConfig(), st, notifier, src2, nil)
	report, err := p2.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Dispatched != 0 {
		t.Errorf("dispatched = %d, want 0", report.Dispatched)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("messages sent = %d, want 1", len(notifier.sent))
	}
}

func TestCoreGateRejectsWithoutMarkingSeen(t *testing.T) {
	now := time.Now()
	src := &fakeSource{byFeed: map[string][]feeds.Item{
		"feed-a": {item("g1", "https://www.dexerto.com/offtopic", "Local council approves budget", now)},
	}}
	st := newMemStore()
	notifier := &fakeNotifier{}
	p := buildPipeline(testConfig(), st, notifier, src, nil)

	report, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Irrelevant != 1 {
		t.Errorf("irrelevant = %d, want 1", report.Irrelevant)
	}
	if len(st.links) != 0 || len(st.ids) != 0 || len(st.titles) != 0 {
		t.Error("rejected item must leave no store records")
	}
}

func TestStaleItemRejectedWithoutMarkingSeen(t *testing.T) {
	src := &fakeSource{byFeed: map[string][]feeds.Item{
		"feed-a": {item("g1", "https://www.dexerto.com/old", "Twitch retrospective of the decade", time.Now().Add(-48*time.Hour))},
	}}
	st := newMemStore()
	p := buildPipeline(testConfig(), st, &fakeNotifier{}, src, nil)

	report, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Stale != 1 {
		t.Errorf("stale = %d, want 1", report.Stale)
	}
	if len(st.ids) != 0 {
		t.Error("stale item must not be recorded")
	}
}

func TestDispatchFailureLeavesItemEligible(t *testing.T) {
	now := time.Now()
	items := map[string][]feeds.Item{
		"feed-a": {item("g1", "https://www.dexerto.com/story", "YouTube updates its monetization rules", now)},
	}
	st := newMemStore()

	failing := &fakeNotifier{err: errors.New("telegram: 502")}
	p := buildPipeline(testConfig(), st, failing, &fakeSource{byFeed: items}, nil)
	report, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("failing run: %v", err)
	}
	if report.Dispatched != 0 || report.Failures != 1 {
		t.Fatalf("failing run: dispatched=%d failures=%d, want 0/1", report.Dispatched, report.Failures)
	}
	if len(st.ids) != 0 || len(st.links) != 0 {
		t.Fatal("failed dispatch must not be recorded")
	}

	ok := &fakeNotifier{}
	p2 := buildPipeline(testConfig(), st, ok, &fakeSource{byFeed: items}, nil)
	report, err = p2.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("retry run: %v", err)
	}
	if report.Dispatched != 1 {
		t.Errorf("retry run dispatched = %d, want 1", report.Dispatched)
	}
}

func TestPersistenceErrorAbortsRun(t *testing.T) {
	now := time.Now()
	src := &fakeSource{byFeed: map[string][]feeds.Item{
		"feed-a": {
			item("g1", "https://www.dexerto.com/a", "Twitch story one", now),
			item("g2", "https://www.dexerto.com/b", "Twitch story two", now),
		},
	}}
	st := newMemStore()
	st.failing = true
	p := buildPipeline(testConfig(), st, &fakeNotifier{}, src, nil)

	_, err := p.RunOnce(context.Background())
	if !errors.Is(err, store.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

func TestBodySearchExtendedGate(t *testing.T) {
	now := time.Now()
	cfg := testConfig()
	cfg.SearchBody = true

	catalog := testCatalog()
	catalog.Categories[0].Keywords = []string{"payout"}

	src := &fakeSource{byFeed: map[string][]feeds.Item{
		"feed-a": {
			item("g1", "https://www.dexerto.com/match", "Twitch policy update", now),
			item("g2", "https://www.dexerto.com/miss", "Twitch cosmetic refresh", now),
		},
	}}
	fetcher := &fakeFetcher{text: map[string]string{
		"https://www.dexerto.com/match": "The new payout structure changes everything for partners.",
		"https://www.dexerto.com/miss":  "A fresh coat of paint for the homepage.",
	}}
	notifier := &fakeNotifier{}
	p := New(cfg, catalog, Deps{
		Source:     src,
		Fetcher:    fetcher,
		Translator: fakeTranslator{},
		Notifier:   notifier,
		Store:      newMemStore(),
		Sleep:      func(time.Duration) {},
	})

	report, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Dispatched != 1 {
		t.Errorf("dispatched = %d, want 1", report.Dispatched)
	}
	if report.Irrelevant != 1 {
		t.Errorf("irrelevant = %d, want 1", report.Irrelevant)
	}
}
