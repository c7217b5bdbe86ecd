package handlers

import (
	"context"
	"fmt"
	"os"

	"dailybrief/internal/config"
	"dailybrief/internal/ingest"
	"dailybrief/internal/logger"
	"dailybrief/internal/sources"
	"dailybrief/internal/store"

	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command
func NewScrapeCmd() *cobra.Command {
	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch recent articles from all configured sources",
		Long: `Run the Hacker News and RSS adapters once and store everything they
return. Items already seen (same source, id, url, title, and body) are
silently skipped.`,
		Run: func(cmd *cobra.Command, args []string) {
			hours, _ := cmd.Flags().GetInt("hours")
			if err := runScrape(cmd.Context(), hours); err != nil {
				logger.Error("Scrape failed", err)
				os.Exit(1)
			}
		},
	}

	scrapeCmd.Flags().Int("hours", 0, "Lookback window in hours (defaults to config value)")
	return scrapeCmd
}

func runScrape(ctx context.Context, hours int) error {
	cfg := config.Get()
	if hours <= 0 {
		hours = cfg.Sources.WindowHours
	}

	st, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close store", err)
		}
	}()

	manager := sources.FromConfig(cfg.Sources)
	result, err := manager.FetchAll(ctx, hours)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	inserted, err := ingest.NewIngestor(st).Ingest(ctx, result.Items)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("✓ Fetched %d items, stored %d new (%d adapters ok, %d failed)\n",
		len(result.Items), inserted, result.AdaptersOK, result.AdaptersFailed)
	return nil
}
