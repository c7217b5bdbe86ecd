package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"dailybrief/internal/config"
	"dailybrief/internal/llm"
	"dailybrief/internal/logger"
	"dailybrief/internal/store"

	"github.com/spf13/cobra"
)

// NewProcessCmd creates the process command
func NewProcessCmd() *cobra.Command {
	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Enrich stored articles with embeddings and relevance scores",
		Long: `Fetch unprocessed articles from the store, embed each one, score its
relevance for every persona, and persist the results. Articles that fail
are skipped and retried on the next run.`,
		Run: func(cmd *cobra.Command, args []string) {
			limit, _ := cmd.Flags().GetInt("limit")
			if err := runProcess(cmd.Context(), limit); err != nil {
				logger.Error("Processing failed", err)
				os.Exit(1)
			}
		},
	}

	processCmd.Flags().Int("limit", 100, "Max number of articles to process")
	return processCmd
}

func runProcess(ctx context.Context, limit int) error {
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

	client, err := llm.NewClient(cfg.Gemini.Model, cfg.Gemini.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	items, err := st.UnprocessedItems(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load unprocessed items: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("No articles to process.")
		return nil
	}

	fmt.Printf("Processing %d articles...\n", len(items))

	processed := 0
	for _, item := range items {
		embedding, err := client.GenerateEmbeddingForItem(ctx, item)
		if err != nil {
			logger.Warn("embedding failed, item skipped", "item_id", item.ID, "error", err)
			continue
		}

		scores := client.ScoreItem(ctx, item)

		now := time.Now().UTC()
		item.Embedding = embedding
		item.GenAINewsScore = &scores.GenAINews
		item.ProductIdeasScore = &scores.ProductIdeas
		item.ScoreExplanation = scores.Explanation
		item.ProcessedAt = &now

		if err := st.UpdateEnrichment(ctx, item); err != nil {
			logger.Warn("enrichment save failed, item skipped", "item_id", item.ID, "error", err)
			continue
		}

		processed++
		if processed%5 == 0 {
			logger.Info("processing progress", "processed", processed, "total", len(items))
			fmt.Printf("Processed %d/%d articles...\n", processed, len(items))
		}
	}

	logger.Info("processing complete", "processed", processed, "total", len(items))
	fmt.Printf("\n✓ Successfully processed %d/%d articles\n", processed, len(items))
	return nil
}
