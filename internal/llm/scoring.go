package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dailybrief/internal/core"
	"dailybrief/internal/logger"
)

// Scores holds the per-persona relevance judgement for one item.
type Scores struct {
	GenAINews    float64
	ProductIdeas float64
	Explanation  string
}

type scoreResponse struct {
	GenAINews    float64 `json:"genai_news"`
	ProductIdeas float64 `json:"product_ideas"`
	Explanation  string  `json:"explanation"`
}

// ScoreRelevance rates an item against both personas. It never returns an
// error: any generation or parse failure yields zeroed scores with the
// failure recorded in the explanation, so one bad item cannot stall a
// processing batch.
func (c *Client) ScoreRelevance(ctx context.Context, title, summary string) Scores {
	prompt := fmt.Sprintf(relevancePromptTemplate, title, truncate(summary, maxScoreSummaryLength))

	raw, err := c.generateContent(ctx, prompt, 0.1, 150)
	if err != nil {
		logger.Warn("relevance scoring failed", "title", title, "error", err)
		return Scores{Explanation: fmt.Sprintf("Error: %v", err)}
	}

	scores, err := parseScores(raw)
	if err != nil {
		logger.Warn("relevance response unparseable", "title", title, "error", err)
		return Scores{Explanation: fmt.Sprintf("Error: %v", err)}
	}
	return scores
}

// ScoreItem applies ScoreRelevance to an item using its title and body text.
func (c *Client) ScoreItem(ctx context.Context, item core.Item) Scores {
	return c.ScoreRelevance(ctx, item.Title, item.BodyText())
}

// parseScores decodes a relevance response, tolerating markdown code fences
// around the JSON and clamping out-of-range values.
func parseScores(raw string) (Scores, error) {
	cleaned := stripJSONFence(raw)

	var resp scoreResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return Scores{}, fmt.Errorf("decode scores: %w", err)
	}
	return Scores{
		GenAINews:    clampScore(resp.GenAINews),
		ProductIdeas: clampScore(resp.ProductIdeas),
		Explanation:  resp.Explanation,
	}, nil
}

// stripJSONFence removes a surrounding ```json ... ``` (or bare ```) fence.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
