// Package feeds pulls entries from the configured RSS/Atom catalog.
package feeds

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/platcorn/newsbot/internal/logger"
)

// Item is one entry read from a feed for the current run. Ephemeral; never
// persisted as-is.
type Item struct {
	RawID       string
	Link        string
	Title       string
	Published   time.Time // zero when the feed carried no parseable timestamp
	Summary     string
	Description string
	FeedURL     string
	Category    string
}

// Source fetches and parses feeds, capping the number of items taken per
// feed per run.
type Source struct {
	parser     *gofeed.Parser
	maxPerFeed int
}

// NewSource builds a Source with a bounded HTTP client.
func NewSource(timeout time.Duration, maxPerFeed int) *Source {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	return &Source{parser: p, maxPerFeed: maxPerFeed}
}

// Fetch returns up to maxPerFeed items from feedURL, most recent first as
// delivered by the feed. Transport and parse failures are logged and yield
// an empty slice; a broken feed never aborts the run.
func (s *Source) Fetch(ctx context.Context, feedURL, category string) []Item {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		logger.Warn("feed fetch failed", "feed", feedURL, "error", err)
		return nil
	}

	entries := feed.Items
	if len(entries) > s.maxPerFeed {
		entries = entries[:s.maxPerFeed]
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{
			RawID:       e.GUID,
			Link:        e.Link,
			Title:       e.Title,
			Published:   entryTime(e),
			Summary:     e.Content,
			Description: e.Description,
			FeedURL:     feedURL,
			Category:    category,
		})
	}
	logger.Debug("feed loaded", "feed", feedURL, "items", len(items))
	return items
}

// entryTime prefers the published timestamp, falls back to updated, and
// returns zero when neither parsed; the freshness gate treats zero as stale.
func entryTime(e *gofeed.Item) time.Time {
	if e.PublishedParsed != nil {
		return *e.PublishedParsed
	}
	if e.UpdatedParsed != nil {
		return *e.UpdatedParsed
	}
	return time.Time{}
}
