package handlers

import (
	"fmt"
	"os"

	"dailybrief/internal/config"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dailybrief",
		Short: "dailybrief scrapes tech news and generates persona-based digests.",
		Long: `dailybrief is a local-first news pipeline: it scrapes Hacker News and
RSS feeds, enriches articles with embeddings and relevance scores, clusters
similar stories, and assembles a short daily digest per persona that can be
printed, emailed, or sent to Telegram.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dailybrief.yaml)")

	rootCmd.AddCommand(NewScrapeCmd())
	rootCmd.AddCommand(NewProcessCmd())
	rootCmd.AddCommand(NewDigestCmd())
	rootCmd.AddCommand(NewDeliverCmd())
	rootCmd.AddCommand(NewCacheCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}
