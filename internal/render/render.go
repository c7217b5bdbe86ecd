// Package render turns an assembled digest into markdown and terminal text.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dailybrief/internal/core"
)

func personaEmoji(persona string) string {
	if strings.HasPrefix(persona, "gen") {
		return "🤖"
	}
	return "🚀"
}

func personaTitle(persona string) string {
	if strings.HasPrefix(persona, "gen") {
		return "GenAI News"
	}
	return "Product Ideas"
}

// Markdown renders the digest as a markdown document.
func Markdown(d core.Digest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s %s Digest\n\n", personaEmoji(d.Persona), personaTitle(d.Persona))
	fmt.Fprintf(&b, "*%s*\n\n", d.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "%s\n\n", d.Intro)

	for i, section := range d.Sections {
		fmt.Fprintf(&b, "## Topic %d: %s\n\n", i+1, section.Theme)
		fmt.Fprintf(&b, "*%d articles, avg score %.2f*\n\n", section.ArticleCount, section.AvgScore)
		fmt.Fprintf(&b, "%s\n\n", section.Summary)
		for _, article := range section.Articles {
			fmt.Fprintf(&b, "- [%s](%s)\n", article.Title, article.URL)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n*Total: %d articles across %d topics*\n", d.TotalArticles, d.TotalClusters)
	return b.String()
}

// Terminal renders the digest for stdout.
func Terminal(d core.Digest) string {
	divider := strings.Repeat("=", 80)
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s %s Digest\n", personaEmoji(d.Persona), personaTitle(d.Persona))
	fmt.Fprintf(&b, "%s\n", d.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "%s\n\n", divider)
	fmt.Fprintf(&b, "%s\n", d.Intro)

	for i, section := range d.Sections {
		fmt.Fprintf(&b, "\nTopic %d: %s\n", i+1, section.Theme)
		fmt.Fprintf(&b, "(%d articles, avg score: %.2f)\n\n", section.ArticleCount, section.AvgScore)
		fmt.Fprintf(&b, "%s\n\n", section.Summary)
		b.WriteString("Articles:\n")
		for _, article := range section.Articles {
			fmt.Fprintf(&b, "  • %s\n", article.Title)
			fmt.Fprintf(&b, "    %s\n", article.URL)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", divider)
	fmt.Fprintf(&b, "Total: %d articles across %d topics\n", d.TotalArticles, d.TotalClusters)
	return b.String()
}

// WriteToFile saves rendered content under outputDir, creating the
// directory when needed, and returns the written path.
func WriteToFile(content, outputDir, filename string) (string, error) {
	if outputDir == "" {
		outputDir = "digests"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filePath := filepath.Join(outputDir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write digest file %s: %w", filePath, err)
	}
	return filePath, nil
}

// DigestFilename names a markdown digest file after its persona and date.
func DigestFilename(d core.Digest) string {
	return fmt.Sprintf("digest_%s_%s.md", d.Persona, d.GeneratedAt.UTC().Format("2006-01-02"))
}
