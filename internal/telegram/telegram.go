// Package telegram delivers digests through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dailybrief/internal/config"
	"dailybrief/internal/core"
	"dailybrief/internal/logger"
)

const (
	apiBaseURL = "https://api.telegram.org"

	topicDivider = "━━━━━━━━━━━━━━━"

	// Telegram caps messages at 4096 characters; leave headroom.
	maxMessageLength = 4000
)

// Client sends messages through one bot account.
type Client struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewClient validates the bot configuration and returns a client.
func NewClient(cfg config.Telegram) (*Client, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token not configured")
	}
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("telegram chat id not configured")
	}
	return &Client{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		baseURL:  apiBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func personaTitle(persona string) string {
	if strings.HasPrefix(persona, "gen") {
		return "GenAI News"
	}
	return "Product Ideas"
}

func personaEmoji(persona string) string {
	if strings.HasPrefix(persona, "gen") {
		return "🤖"
	}
	return "🚀"
}

// escapeMarkdown escapes characters Telegram treats as Markdown markup.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]")
	return r.Replace(s)
}

// FormatDigest renders the digest as a Telegram Markdown message.
func FormatDigest(d core.Digest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s *%s Digest*\n", personaEmoji(d.Persona), personaTitle(d.Persona))
	fmt.Fprintf(&b, "_%s_\n\n", d.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "%s\n\n", d.Intro)
	b.WriteString(topicDivider + "\n\n")

	for i, section := range d.Sections {
		fmt.Fprintf(&b, "*Topic %d: %s*\n", i+1, section.Theme)
		fmt.Fprintf(&b, "📊 %d articles • ⭐ %.2f avg score\n\n", section.ArticleCount, section.AvgScore)
		fmt.Fprintf(&b, "%s\n\n", section.Summary)

		b.WriteString("*Articles:*\n")
		for _, article := range section.Articles {
			fmt.Fprintf(&b, "• [%s](%s)\n", escapeMarkdown(article.Title), article.URL)
		}
		b.WriteString("\n" + topicDivider + "\n\n")
	}

	fmt.Fprintf(&b, "📈 *Total:* %d articles across %d topics\n", d.TotalArticles, d.TotalClusters)
	b.WriteString("_Powered by DailyBrief_")
	return b.String()
}

// splitMessage breaks an over-long message at topic dividers so each chunk
// stays under the Telegram limit.
func splitMessage(message string) []string {
	if len(message) <= maxMessageLength {
		return []string{message}
	}

	parts := strings.Split(message, topicDivider)
	var chunks []string
	current := parts[0]
	for _, part := range parts[1:] {
		if len(current)+len(part)+len(topicDivider) < maxMessageLength {
			current += topicDivider + part
		} else {
			chunks = append(chunks, current)
			current = part
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// SendDigest formats and sends the digest, splitting it when it exceeds
// the message size limit.
func (c *Client) SendDigest(ctx context.Context, d core.Digest) error {
	for _, chunk := range splitMessage(FormatDigest(d)) {
		if err := c.sendMessage(ctx, chunk); err != nil {
			return err
		}
	}
	logger.Info("digest sent to telegram", "digest_id", d.ID, "chat_id", c.chatID)
	return nil
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) sendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram send failed: %s", result.Description)
	}
	return nil
}
