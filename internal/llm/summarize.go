package llm

import (
	"context"
	"fmt"
	"strings"

	"dailybrief/internal/core"
)

const maxPromptArticles = 10

// SummarizeCluster writes a short narrative for one cluster, using the
// persona-specific template.
func (c *Client) SummarizeCluster(ctx context.Context, persona string, items []core.Item) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("summarize cluster: no items")
	}

	template := genaiClusterPromptTemplate
	if persona == "product" {
		template = productClusterPromptTemplate
	}
	prompt := fmt.Sprintf(template, formatArticlesForPrompt(items))

	text, err := c.generateContent(ctx, prompt, 0.7, 200)
	if err != nil {
		return "", fmt.Errorf("summarize cluster: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SummarizeArticle condenses a single article into 2-3 sentences.
func (c *Client) SummarizeArticle(ctx context.Context, title, text string) (string, error) {
	prompt := fmt.Sprintf(articlePromptTemplate, title, truncate(text, maxArticleTextLength))

	out, err := c.generateContent(ctx, prompt, 0.4, 180)
	if err != nil {
		return "", fmt.Errorf("summarize article: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// GenerateIntro writes the digest opening paragraph.
func (c *Client) GenerateIntro(ctx context.Context, persona string, numClusters, numArticles int, topThemes []string) (string, error) {
	themes := strings.Join(topThemes, ", ")
	if themes == "" {
		themes = "various topics"
	}
	prompt := fmt.Sprintf(introPromptTemplate, persona, numClusters, numArticles, themes)

	text, err := c.generateContent(ctx, prompt, 0.8, 150)
	if err != nil {
		return "", fmt.Errorf("generate intro: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// formatArticlesForPrompt renders cluster members as a numbered list,
// bounded so a huge cluster cannot blow the prompt budget.
func formatArticlesForPrompt(items []core.Item) string {
	var b strings.Builder
	for i, item := range items {
		if i >= maxPromptArticles {
			fmt.Fprintf(&b, "... and %d more articles\n", len(items)-maxPromptArticles)
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		if summary := truncate(item.BodyText(), maxScoreSummaryLength); summary != "" {
			fmt.Fprintf(&b, "   %s\n", summary)
		}
	}
	return b.String()
}
