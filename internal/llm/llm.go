// Package llm wraps the Gemini API for embeddings, relevance scoring, and
// digest narrative generation.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"dailybrief/internal/core"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model for scoring and narratives.
	DefaultModel = "gemini-flash-lite-latest"
	// DefaultEmbeddingModel is the default model for generating embeddings
	DefaultEmbeddingModel = "gemini-embedding-001"
	// DefaultEmbeddingDimensions is the output dimension for embeddings (Matryoshka)
	DefaultEmbeddingDimensions = int32(768)

	// maxEmbedTextLength bounds text sent to the embedding model.
	maxEmbedTextLength = 1000
	// maxScoreSummaryLength bounds summary text in the scoring prompt.
	maxScoreSummaryLength = 500
	// maxArticleTextLength bounds body text in the article summary prompt.
	maxArticleTextLength = 1200
)

// Client represents a client for interacting with the Gemini API.
type Client struct {
	apiKey         string
	modelName      string
	embeddingModel string
	gClient        *genai.Client
}

// NewClient creates a new LLM client.
// It supports multiple ways to get the API key (in order of preference):
// 1. Environment variable: GEMINI_API_KEY (or alternatives)
// 2. Viper configuration: gemini.api_key
func NewClient(modelName, embeddingModel string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			apiKey = viper.GetString("gemini.api_key")
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or gemini.api_key in config file")
	}

	if modelName == "" {
		modelName = viper.GetString("gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}
	if embeddingModel == "" {
		embeddingModel = viper.GetString("gemini.embedding_model")
		if embeddingModel == "" {
			embeddingModel = DefaultEmbeddingModel
		}
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:         apiKey,
		modelName:      modelName,
		embeddingModel: embeddingModel,
		gClient:        gClient,
	}, nil
}

// Close releases the underlying API client. The current SDK keeps no open
// connection state, so this is a no-op kept for symmetry.
func (c *Client) Close() {}

// generateContent is a helper that wraps the SDK's GenerateContent call.
func (c *Client) generateContent(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}

// GenerateEmbedding generates an embedding vector for the given text.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: text}},
		Role:  "user",
	}}

	// Configure embedding with 768 dimensions using Matryoshka
	dims := DefaultEmbeddingDimensions
	config := &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
	}

	resp, err := c.gClient.Models.EmbedContent(ctx, c.embeddingModel, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embedding values returned from API")
	}

	// Convert float32 to float64
	values := resp.Embeddings[0].Values
	embedding := make([]float64, len(values))
	for i, val := range values {
		embedding[i] = float64(val)
	}

	return embedding, nil
}

// GenerateEmbeddingForItem generates an embedding from an item's title and
// summary, the same text the scorer sees.
func (c *Client) GenerateEmbeddingForItem(ctx context.Context, item core.Item) ([]float64, error) {
	text := EmbeddingText(item)
	return c.GenerateEmbedding(ctx, text)
}

// EmbeddingText builds the canonical embedding input for an item: title
// plus summary, bounded so the same item always embeds the same text.
func EmbeddingText(item core.Item) string {
	return truncate(item.Title+". "+item.Summary, maxEmbedTextLength)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
