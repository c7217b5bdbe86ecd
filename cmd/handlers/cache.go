package handlers

import (
	"context"
	"fmt"
	"os"

	"dailybrief/internal/config"
	"dailybrief/internal/logger"
	"dailybrief/internal/store"

	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache management command
func NewCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local article and digest store",
	}

	cacheCmd.AddCommand(newCacheStatsCmd())
	cacheCmd.AddCommand(newCacheClearCmd())

	return cacheCmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runCacheStats(cmd.Context()); err != nil {
				logger.Error("Failed to get store stats", err)
				os.Exit(1)
			}
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored articles and digests",
		Run: func(cmd *cobra.Command, args []string) {
			confirm, _ := cmd.Flags().GetBool("confirm")
			if err := runCacheClear(cmd.Context(), confirm); err != nil {
				logger.Error("Failed to clear store", err)
				os.Exit(1)
			}
		},
	}

	clearCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	return clearCmd
}

func runCacheStats(ctx context.Context) error {
	cfg := config.Get()

	st, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close store", err)
		}
	}()

	stats, err := st.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store statistics: %w", err)
	}

	fmt.Println("📊 Store Statistics")
	fmt.Println("===================")
	fmt.Printf("📄 Articles stored:           %d\n", stats.ItemCount)
	fmt.Printf("✅ Processed:                 %d\n", stats.ProcessedCount)
	fmt.Printf("🤖 High GenAI relevance:      %d\n", stats.HighGenAI)
	fmt.Printf("🚀 High Product relevance:    %d\n", stats.HighProduct)
	fmt.Printf("📰 Digests stored:            %d\n", stats.DigestCount)
	fmt.Printf("💾 Database size:             %.2f MB\n", float64(stats.DatabaseSize)/1024/1024)
	if !stats.LastUpdated.IsZero() {
		fmt.Printf("📅 Last updated:              %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runCacheClear(ctx context.Context, confirm bool) error {
	if !confirm {
		fmt.Print("⚠️  This will remove all stored articles and digests. Continue? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" && response != "yes" {
			fmt.Println("Clear cancelled")
			return nil
		}
	}

	cfg := config.Get()

	st, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close store", err)
		}
	}()

	if err := st.Clear(ctx); err != nil {
		return err
	}

	fmt.Println("✅ Store cleared")
	return nil
}
