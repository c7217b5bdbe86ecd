package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dailybrief/internal/core"
	"dailybrief/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// RSS fetches and normalizes entries from a set of RSS/Atom feeds.
type RSS struct {
	feeds    []string
	maxItems int
	client   *http.Client
	parser   *gofeed.Parser
	retry    RetryPolicy
}

// NewRSS builds an RSS adapter over the given feed URLs. maxItems bounds
// the number of entries taken from each feed.
func NewRSS(feeds []string, timeout time.Duration, maxItems int, retry RetryPolicy) *RSS {
	return &RSS{
		feeds:    feeds,
		maxItems: maxItems,
		client:   &http.Client{Timeout: timeout},
		parser:   gofeed.NewParser(),
		retry:    retry,
	}
}

func (r *RSS) Name() string { return "rss" }

// FetchItems pulls every configured feed and keeps entries published within
// the last N hours. A feed that fails after retries is logged and skipped so
// one broken feed cannot abort the whole scrape.
func (r *RSS) FetchItems(ctx context.Context, hours int) ([]core.Item, error) {
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	var collected []core.Item
	for _, feedURL := range r.feeds {
		feed, err := r.fetchFeed(ctx, feedURL)
		if err != nil {
			logger.Warn("rss feed skipped", "feed", feedURL, "error", err)
			continue
		}

		count := 0
		for _, entry := range feed.Items {
			published := entryTime(entry)
			if published != nil && published.Before(since) {
				continue
			}
			item, err := r.mapEntry(entry, feed)
			if err != nil {
				logger.Warn("rss entry skipped", "feed", feedURL, "error", err)
				continue
			}
			collected = append(collected, item)
			count++
			if count >= r.maxItems {
				break
			}
		}
	}
	logger.Info("rss fetch completed", "count", len(collected))
	return collected, nil
}

func (r *RSS) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	var body []byte
	err := r.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := r.client.Do(req)
		if err != nil {
			return Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return Retryable(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.parser.ParseString(string(body))
}

func (r *RSS) mapEntry(entry *gofeed.Item, feed *gofeed.Feed) (core.Item, error) {
	if entry.Link == "" {
		return core.Item{}, fmt.Errorf("entry missing link")
	}

	externalID := entry.GUID
	if externalID == "" {
		externalID = entry.Link
	}
	title := entry.Title
	if title == "" {
		title = feed.Title
	}

	summary := stripHTML(entry.Description)
	content := stripHTML(entry.Content)
	if content == "" {
		content = summary
	}

	var categories []string
	categories = append(categories, entry.Categories...)

	return core.Item{
		Source:      r.Name(),
		ExternalID:  externalID,
		Title:       title,
		Summary:     summary,
		Content:     content,
		URL:         entry.Link,
		Language:    feed.Language,
		PublishedAt: entryTime(entry),
		Metadata: map[string]any{
			"feed":       feed.Title,
			"categories": categories,
		},
	}, nil
}

func entryTime(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		t := entry.PublishedParsed.UTC()
		return &t
	}
	if entry.UpdatedParsed != nil {
		t := entry.UpdatedParsed.UTC()
		return &t
	}
	return nil
}

// stripHTML flattens feed HTML into plain text. Unparseable markup falls
// back to the raw string.
func stripHTML(s string) string {
	if s == "" || !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
