package core

import (
	"testing"
	"time"
)

func TestScoreFieldForPersona(t *testing.T) {
	cases := []struct {
		persona string
		want    ScoreField
	}{
		{"genai", ScoreGenAINews},
		{"genai-news", ScoreGenAINews},
		{"product", ScoreProductIdeas},
		{"unknown", ScoreGenAINews},
		{"", ScoreGenAINews},
	}

	for _, tc := range cases {
		if got := ScoreFieldForPersona(tc.persona); got != tc.want {
			t.Errorf("ScoreFieldForPersona(%q) = %q, want %q", tc.persona, got, tc.want)
		}
	}
}

func TestClusterLabelNoise(t *testing.T) {
	if !Noise.IsNoise() {
		t.Error("Noise label should report IsNoise")
	}
	if ClusterLabel(0).IsNoise() {
		t.Error("Label 0 should not be noise")
	}
	if ClusterLabel(7).IsNoise() {
		t.Error("Label 7 should not be noise")
	}
}

func TestItemScore(t *testing.T) {
	genai := 0.8
	product := 0.3
	item := Item{
		GenAINewsScore:    &genai,
		ProductIdeasScore: &product,
	}

	if got := item.Score(ScoreGenAINews); got != 0.8 {
		t.Errorf("Expected genai score 0.8, got %f", got)
	}
	if got := item.Score(ScoreProductIdeas); got != 0.3 {
		t.Errorf("Expected product score 0.3, got %f", got)
	}

	unscored := Item{}
	if got := unscored.Score(ScoreGenAINews); got != 0 {
		t.Errorf("Unscored item should score 0, got %f", got)
	}
}

func TestItemBodyText(t *testing.T) {
	item := Item{Summary: "summary text", Content: "full content"}
	if got := item.BodyText(); got != "full content" {
		t.Errorf("Expected content to win, got %q", got)
	}

	item.Content = ""
	if got := item.BodyText(); got != "summary text" {
		t.Errorf("Expected summary fallback, got %q", got)
	}

	item.Summary = ""
	if got := item.BodyText(); got != "" {
		t.Errorf("Expected empty body, got %q", got)
	}
}

func TestItemHasEmbedding(t *testing.T) {
	item := Item{}
	if item.HasEmbedding() {
		t.Error("Item without embedding should not report one")
	}
	item.Embedding = []float64{}
	if item.HasEmbedding() {
		t.Error("Zero-length embedding should not count")
	}
	item.Embedding = []float64{0.1, 0.2}
	if !item.HasEmbedding() {
		t.Error("Item with embedding should report one")
	}
}

func TestDigestCreation(t *testing.T) {
	now := time.Now().UTC()
	digest := Digest{
		ID:          "digest-1",
		Persona:     "genai",
		GeneratedAt: now,
		Intro:       "Welcome to today's digest.",
		Sections: []DigestSection{
			{
				Theme:        "LLM releases",
				Summary:      "Several labs shipped new models.",
				AvgScore:     0.85,
				ArticleCount: 3,
				Articles: []ArticleRef{
					{Title: "Model A", URL: "https://example.com/a", Source: "rss"},
				},
			},
		},
		TotalArticles: 3,
		TotalClusters: 1,
	}

	if digest.Persona != "genai" {
		t.Errorf("Expected persona 'genai', got %s", digest.Persona)
	}
	if len(digest.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(digest.Sections))
	}
	if digest.Sections[0].AvgScore != 0.85 {
		t.Errorf("Expected AvgScore 0.85, got %f", digest.Sections[0].AvgScore)
	}
	if digest.TotalArticles != 3 {
		t.Errorf("Expected TotalArticles 3, got %d", digest.TotalArticles)
	}
}
