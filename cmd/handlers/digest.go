package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"dailybrief/internal/clustering"
	"dailybrief/internal/config"
	"dailybrief/internal/core"
	"dailybrief/internal/digest"
	"dailybrief/internal/llm"
	"dailybrief/internal/logger"
	"dailybrief/internal/render"
	"dailybrief/internal/store"

	"github.com/spf13/cobra"
)

// NewDigestCmd creates the digest command group
func NewDigestCmd() *cobra.Command {
	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Generate and inspect persona-based digests",
	}

	digestCmd.AddCommand(newDigestGenerateCmd())
	digestCmd.AddCommand(newDigestListCmd())
	digestCmd.AddCommand(newDigestShowCmd())

	return digestCmd
}

func newDigestGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a digest from recent scored articles",
		Long: `Cluster recent articles whose persona score meets the threshold, rank
the clusters, and write an LLM-narrated digest. The digest is saved to the
store and printed to the terminal.`,
		Run: func(cmd *cobra.Command, args []string) {
			persona, _ := cmd.Flags().GetString("persona")
			minScore, _ := cmd.Flags().GetFloat64("min-score")
			days, _ := cmd.Flags().GetInt("days")
			save, _ := cmd.Flags().GetBool("save")
			display, _ := cmd.Flags().GetBool("display")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			if err := runDigestGenerate(cmd.Context(), persona, minScore, days, save, display, outputDir); err != nil {
				logger.Error("Digest generation failed", err)
				os.Exit(1)
			}
		},
	}

	generateCmd.Flags().StringP("persona", "p", "genai", "Persona: genai or product")
	generateCmd.Flags().Float64("min-score", 0, "Minimum relevance score (defaults to config value)")
	generateCmd.Flags().Int("days", 0, "Include articles from last N days (defaults to config value)")
	generateCmd.Flags().Bool("save", true, "Save digest to the store")
	generateCmd.Flags().Bool("display", true, "Display digest in terminal")
	generateCmd.Flags().String("output-dir", "", "Also write the digest as markdown into this directory")
	return generateCmd
}

func newDigestListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent digests",
		Run: func(cmd *cobra.Command, args []string) {
			limit, _ := cmd.Flags().GetInt("limit")
			if err := runDigestList(cmd.Context(), limit); err != nil {
				logger.Error("Failed to list digests", err)
				os.Exit(1)
			}
		},
	}

	listCmd.Flags().IntP("limit", "n", 10, "Number of digests to show")
	return listCmd
}

func newDigestShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <digest-id>",
		Short: "Show a stored digest",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runDigestShow(cmd.Context(), args[0]); err != nil {
				logger.Error("Failed to show digest", err)
				os.Exit(1)
			}
		},
	}
}

func runDigestGenerate(ctx context.Context, persona string, minScore float64, days int, save, display bool, outputDir string) error {
	cfg := config.Get()
	if minScore <= 0 {
		minScore = cfg.Digest.MinScore
	}
	if days <= 0 {
		days = cfg.Digest.WindowDays
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

	field := core.ScoreFieldForPersona(persona)
	since := time.Now().UTC().AddDate(0, 0, -days)

	items, err := st.ScoredItems(ctx, field, minScore, since)
	if err != nil {
		return fmt.Errorf("failed to load scored items: %w", err)
	}
	if len(items) == 0 {
		fmt.Printf("No articles found for the %s persona with score >= %.2f\n", persona, minScore)
		return nil
	}

	fmt.Printf("📊 Found %d articles, clustering...\n", len(items))

	groups, err := clustering.Cluster(items, clustering.Config{
		MinClusterSize:      cfg.Digest.MinClusterSize,
		SimilarityThreshold: cfg.Digest.SimilarityThreshold,
	})
	if err != nil {
		return fmt.Errorf("clustering failed: %w", err)
	}
	ranked := clustering.Rank(groups, field)

	client, err := llm.NewClient(cfg.Gemini.Model, cfg.Gemini.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	fmt.Printf("✓ Created %d topic clusters, generating digest...\n", len(ranked))

	d, err := digest.NewAssembler(client).Assemble(ctx, ranked, digest.Options{
		Persona:     persona,
		MaxSections: cfg.Digest.MaxSections,
	})
	if err != nil {
		return fmt.Errorf("digest assembly failed: %w", err)
	}

	if save {
		if err := st.SaveDigest(ctx, d); err != nil {
			return fmt.Errorf("failed to save digest: %w", err)
		}
		fmt.Printf("✓ Digest saved (ID: %s)\n", d.ID)
	}

	if outputDir != "" {
		path, err := render.WriteToFile(render.Markdown(d), outputDir, render.DigestFilename(d))
		if err != nil {
			return err
		}
		fmt.Printf("✓ Markdown written to %s\n", path)
	}

	if display {
		fmt.Println(render.Terminal(d))
	}
	return nil
}

func runDigestList(ctx context.Context, limit int) error {
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

	digests, err := st.ListDigests(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list digests: %w", err)
	}
	if len(digests) == 0 {
		fmt.Println("No digests found.")
		return nil
	}

	fmt.Println("Recent digests:")
	for _, d := range digests {
		fmt.Printf("  %s  %-8s  %s  (%d articles, %d topics)\n",
			d.ID, d.Persona, d.GeneratedAt.Format("2006-01-02 15:04"),
			d.TotalArticles, d.TotalClusters)
	}
	return nil
}

func runDigestShow(ctx context.Context, id string) error {
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

	d, err := st.GetDigest(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load digest: %w", err)
	}
	if d == nil {
		fmt.Printf("Digest %s not found.\n", id)
		return nil
	}

	fmt.Println(render.Terminal(*d))
	return nil
}
