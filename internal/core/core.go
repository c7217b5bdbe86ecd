package core

import "time"

// ScoreField names a persona relevance score stored on an Item.
type ScoreField string

const (
	// ScoreGenAINews is the relevance score for the GenAI news persona.
	ScoreGenAINews ScoreField = "genai_news_score"
	// ScoreProductIdeas is the relevance score for the product ideas persona.
	ScoreProductIdeas ScoreField = "product_ideas_score"
)

// ScoreFieldForPersona maps a persona tag to the score field used to rank
// its clusters. Unknown personas fall back to the GenAI news score.
func ScoreFieldForPersona(persona string) ScoreField {
	if len(persona) >= 3 && persona[:3] == "gen" {
		return ScoreGenAINews
	}
	if persona == "product" {
		return ScoreProductIdeas
	}
	return ScoreGenAINews
}

// ClusterLabel identifies a topic group produced by the clusterer.
// Real groups carry non-negative labels assigned in discovery order;
// Noise is the reserved label for items that fit no group.
type ClusterLabel int

// Noise marks items that could not be assigned to any qualifying group.
// Noise members are never ranked or surfaced in a digest.
const Noise ClusterLabel = -1

// IsNoise reports whether the label is the noise sentinel.
func (l ClusterLabel) IsNoise() bool {
	return l == Noise
}

// Item represents a single normalized piece of ingested content.
// Identity is the (Source, ExternalID) pair; ContentHash is the
// fingerprint used as the dedup key. The clustering/ranking/assembly
// pipeline only reads Items, it never mutates them.
type Item struct {
	ID          string         `json:"id"`           // Unique identifier for the item
	Source      string         `json:"source"`       // Source adapter name (e.g., "hackernews", "rss")
	ExternalID  string         `json:"external_id"`  // Identifier assigned by the source
	Title       string         `json:"title"`        // Item title
	Summary     string         `json:"summary"`      // Short summary or description (may be empty)
	Content     string         `json:"content"`      // Full body text when available (may be empty)
	URL         string         `json:"url"`          // Canonical URL
	Language    string         `json:"language"`     // Language hint from the source (may be empty)
	PublishedAt *time.Time     `json:"published_at"` // Publication timestamp (nil if unknown)
	IngestedAt  time.Time      `json:"ingested_at"`  // When the item was admitted to storage
	Engagement  *int           `json:"engagement"`   // Source engagement count (nil if unknown)
	Metadata    map[string]any `json:"metadata"`     // Free-form source metadata
	ContentHash string         `json:"content_hash"` // Deterministic fingerprint, dedup key

	// Enrichment fields, populated once by the processing step.
	Embedding         []float64  `json:"embedding"`           // Semantic embedding (nil until processed)
	GenAINewsScore    *float64   `json:"genai_news_score"`    // Relevance to GenAI news persona (nil until scored)
	ProductIdeasScore *float64   `json:"product_ideas_score"` // Relevance to product ideas persona (nil until scored)
	ScoreExplanation  string     `json:"score_explanation"`   // Scorer's short rationale
	LLMSummary        string     `json:"llm_summary"`         // Cached per-article narrative (may be empty)
	ProcessedAt       *time.Time `json:"processed_at"`        // When enrichment completed (nil if pending)
}

// HasEmbedding reports whether the item carries a usable embedding.
func (it Item) HasEmbedding() bool {
	return len(it.Embedding) > 0
}

// Score returns the named persona relevance score, or 0 when the item has
// not been scored for that persona.
func (it Item) Score(field ScoreField) float64 {
	switch field {
	case ScoreGenAINews:
		if it.GenAINewsScore != nil {
			return *it.GenAINewsScore
		}
	case ScoreProductIdeas:
		if it.ProductIdeasScore != nil {
			return *it.ProductIdeasScore
		}
	}
	return 0
}

// BodyText returns the best available body text for fingerprinting and
// summarization: content when present, else summary, else empty.
func (it Item) BodyText() string {
	if it.Content != "" {
		return it.Content
	}
	return it.Summary
}

// RankedCluster is an immutable (label, members, score) tuple produced by
// the cluster ranker. Order within Items is the original member order.
type RankedCluster struct {
	Label    ClusterLabel `json:"label"`     // Group label from the clusterer
	Items    []Item       `json:"items"`     // Member items in original order
	AvgScore float64      `json:"avg_score"` // Mean persona score across members
}

// ArticleRef is the per-article view record exposed by a digest section.
type ArticleRef struct {
	Title       string     `json:"title"`        // Article title
	Summary     string     `json:"summary"`      // Source-provided summary text
	LLMSummary  string     `json:"llm_summary"`  // Narrative summary for this article
	URL         string     `json:"url"`          // Article URL
	Source      string     `json:"source"`       // Originating source name
	PublishedAt *time.Time `json:"published_at"` // Publication timestamp (nil if unknown)
}

// DigestSection is one ranked topic in a digest. Created once by the
// assembler and immutable thereafter.
type DigestSection struct {
	Theme        string       `json:"theme"`         // Display theme from the representative item
	Summary      string       `json:"summary"`       // Narrative summary of the cluster
	AvgScore     float64      `json:"avg_score"`     // Mean persona score of the members
	ArticleCount int          `json:"article_count"` // Number of member articles
	Articles     []ArticleRef `json:"articles"`      // Member articles in cluster order
}

// Digest is the assembled summary document for one persona and run.
// External renderers index into this shape by field name, so the JSON
// layout must stay stable.
type Digest struct {
	ID            string          `json:"id"`             // Generated identifier
	Persona       string          `json:"persona"`        // Persona tag the digest was built for
	GeneratedAt   time.Time       `json:"generated_at"`   // Creation timestamp
	Intro         string          `json:"intro"`          // Introductory narrative
	Sections      []DigestSection `json:"sections"`       // Ordered sections, highest score first
	TotalArticles int             `json:"total_articles"` // Sum of section article counts
	TotalClusters int             `json:"total_clusters"` // Number of sections
}
