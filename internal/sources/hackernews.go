// Package sources fetches raw items from external news sources and
// normalizes them into core items ready for ingestion.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dailybrief/internal/core"
	"dailybrief/internal/logger"
)

const (
	algoliaBaseURL = "https://hn.algolia.com/api/v1/search_by_date"
	userAgent      = "DailyBriefBot/0.1 (+https://local.run/dailybrief)"

	maxHitsPerPage = 100
)

// Adapter fetches items published within the trailing window from one
// external source.
type Adapter interface {
	Name() string
	FetchItems(ctx context.Context, hours int) ([]core.Item, error)
}

// HackerNews pulls recent stories from the Algolia search API.
type HackerNews struct {
	query    string
	maxItems int
	baseURL  string
	client   *http.Client
	retry    RetryPolicy
}

// NewHackerNews builds a Hacker News adapter for the given search query.
func NewHackerNews(query string, timeout time.Duration, maxItems int, retry RetryPolicy) *HackerNews {
	return &HackerNews{
		query:    query,
		maxItems: maxItems,
		baseURL:  algoliaBaseURL,
		client:   &http.Client{Timeout: timeout},
		retry:    retry,
	}
}

func (h *HackerNews) Name() string { return "hackernews" }

// FetchItems queries Algolia for stories created within the last N hours.
func (h *HackerNews) FetchItems(ctx context.Context, hours int) ([]core.Item, error) {
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	hitsPerPage := h.maxItems
	if hitsPerPage > maxHitsPerPage {
		hitsPerPage = maxHitsPerPage
	}

	params := url.Values{}
	params.Set("query", h.query)
	params.Set("tags", "story")
	params.Set("hitsPerPage", strconv.Itoa(hitsPerPage))
	params.Set("numericFilters", fmt.Sprintf("created_at_i>%d", since.Unix()))

	var payload algoliaResponse
	err := h.retry.Do(ctx, func() error {
		return h.fetchPage(ctx, params, &payload)
	})
	if err != nil {
		return nil, fmt.Errorf("hackernews fetch: %w", err)
	}

	items := make([]core.Item, 0, len(payload.Hits))
	for _, hit := range payload.Hits {
		if len(items) >= h.maxItems {
			break
		}
		item, err := h.mapHit(hit)
		if err != nil {
			logger.Warn("hackernews hit skipped", "hit_id", hit.ObjectID, "error", err)
			continue
		}
		items = append(items, item)
	}
	logger.Info("hackernews fetch completed", "count", len(items))
	return items, nil
}

func (h *HackerNews) fetchPage(ctx context.Context, params url.Values, out *algoliaResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
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
	return json.NewDecoder(resp.Body).Decode(out)
}

type algoliaResponse struct {
	Hits []algoliaHit `json:"hits"`
}

type algoliaHit struct {
	ObjectID    string   `json:"objectID"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	StoryText   string   `json:"story_text"`
	Author      string   `json:"author"`
	Points      *int     `json:"points"`
	NumComments *int     `json:"num_comments"`
	CreatedAt   string   `json:"created_at"`
	Tags        []string `json:"_tags"`
}

func (h *HackerNews) mapHit(hit algoliaHit) (core.Item, error) {
	if hit.ObjectID == "" {
		return core.Item{}, fmt.Errorf("hit missing objectID")
	}

	storyURL := hit.URL
	if storyURL == "" {
		storyURL = "https://news.ycombinator.com/item?id=" + hit.ObjectID
	}
	title := hit.Title
	if title == "" {
		title = hit.StoryText
	}
	if title == "" {
		title = "(untitled)"
	}
	summary := hit.StoryText
	if summary == "" {
		summary = hit.Title
	}

	var publishedAt *time.Time
	if hit.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, hit.CreatedAt); err == nil {
			publishedAt = &ts
		}
	}

	return core.Item{
		Source:      h.Name(),
		ExternalID:  hit.ObjectID,
		Title:       title,
		Summary:     summary,
		Content:     hit.StoryText,
		URL:         storyURL,
		PublishedAt: publishedAt,
		Engagement:  hit.Points,
		Metadata: map[string]any{
			"author":       hit.Author,
			"points":       hit.Points,
			"num_comments": hit.NumComments,
			"tags":         hit.Tags,
		},
	}, nil
}
