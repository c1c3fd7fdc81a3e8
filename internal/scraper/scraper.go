// Package scraper fetches article pages to extract plain text and the
// declared canonical URL. The canonical URL feeds the dedup engine: a story
// syndicated under many tracking/short URLs usually declares one
// authoritative link.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/platcorn/newsbot/internal/logger"
)

const maxContentChars = 8000

// Fetcher downloads and parses article pages.
type Fetcher struct {
	client *http.Client
}

// NewFetcher builds a Fetcher with a bounded HTTP client.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the article's plain text and canonical URL, best effort.
// Any failure returns ("", ""): the pipeline falls back to feed-supplied
// text and the feed link.
func (f *Fetcher) Fetch(ctx context.Context, url string) (text, canonical string) {
	doc, err := f.document(ctx, url)
	if err != nil {
		logger.Debug("article fetch failed", "url", url, "error", err)
		return "", ""
	}
	return extractText(doc), extractCanonical(doc)
}

func (f *Fetcher) document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PlatcornNewsBot/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// extractCanonical reads <link rel="canonical">, then og:url.
func extractCanonical(doc *goquery.Document) string {
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		if href = strings.TrimSpace(href); href != "" {
			return href
		}
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

// extractText walks a selector cascade from most to least specific and keeps
// the first selector that yields enough paragraphs. Short articles that never
// reach the threshold still return whatever the cascade found.
func extractText(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-body p",
		".article-content p",
		".post-content p",
		".entry-content p",
		".content p",
		"main p",
		"p",
	}

	var best []string
	for _, selector := range selectors {
		var paragraphs []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 && !isJunkLine(text) {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			best = paragraphs
			break
		}
		if len(paragraphs) > len(best) {
			best = paragraphs
		}
	}
	if len(best) == 0 {
		return ""
	}
	return capLength(strings.Join(best, "\n\n"))
}

var junkIndicators = []string{
	"cookie", "gdpr", "subscribe to our newsletter", "sign up for",
	"read more:", "related:", "advertisement", "click here",
	"follow us", "share this article", "all rights reserved",
}

func isJunkLine(line string) bool {
	lower := strings.ToLower(line)
	for _, indicator := range junkIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// capLength trims overly long articles on a paragraph boundary; summaries
// never need more input than this.
func capLength(text string) string {
	if len(text) <= maxContentChars {
		return text
	}
	paragraphs := strings.Split(text, "\n\n")
	var kept []string
	total := 0
	for _, p := range paragraphs {
		if total+len(p) > maxContentChars {
			break
		}
		kept = append(kept, p)
		total += len(p) + 2
	}
	if len(kept) == 0 {
		return text[:maxContentChars]
	}
	return strings.Join(kept, "\n\n")
}
