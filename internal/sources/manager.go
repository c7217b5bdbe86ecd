package sources

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dailybrief/internal/config"
	"dailybrief/internal/core"
	"dailybrief/internal/logger"
)

// Manager fans out to all configured adapters and gathers their items.
type Manager struct {
	adapters []Adapter
}

// NewManager builds a manager with the given adapters.
func NewManager(adapters ...Adapter) *Manager {
	return &Manager{adapters: adapters}
}

// FromConfig assembles the standard adapter set from configuration.
func FromConfig(cfg config.Sources) *Manager {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	retry := RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   time.Duration(cfg.RetryBaseDelayMS) * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}

	var adapters []Adapter
	if cfg.HackerNewsQuery != "" {
		adapters = append(adapters, NewHackerNews(cfg.HackerNewsQuery, timeout, cfg.MaxItemsPerSource, retry))
	}
	if len(cfg.RSSFeeds) > 0 {
		adapters = append(adapters, NewRSS(cfg.RSSFeeds, timeout, cfg.MaxItemsPerSource, retry))
	}
	return NewManager(adapters...)
}

// FetchResult reports one scrape run across all adapters.
type FetchResult struct {
	Items          []core.Item
	AdaptersOK     int
	AdaptersFailed int
	Errors         []error
}

// FetchAll runs every adapter concurrently and merges their items. Adapter
// failures are collected rather than aborting the run; the caller decides
// whether a partial scrape is acceptable.
func (m *Manager) FetchAll(ctx context.Context, hours int) (*FetchResult, error) {
	if len(m.adapters) == 0 {
		logger.Warn("no source adapters configured")
		return &FetchResult{}, nil
	}

	logger.Info("starting scrape", "adapters", len(m.adapters), "window_hours", hours)

	result := &FetchResult{}
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, adapter := range m.adapters {
		wg.Add(1)
		go func(a Adapter) {
			defer wg.Done()

			items, err := a.FetchItems(ctx, hours)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("adapter failed", err, "adapter", a.Name())
				result.AdaptersFailed++
				result.Errors = append(result.Errors, fmt.Errorf("adapter %s: %w", a.Name(), err))
				return
			}
			result.AdaptersOK++
			result.Items = append(result.Items, items...)
		}(adapter)
	}
	wg.Wait()

	logger.Info("scrape completed",
		"items", len(result.Items),
		"adapters_ok", result.AdaptersOK,
		"adapters_failed", result.AdaptersFailed,
	)
	return result, nil
}
