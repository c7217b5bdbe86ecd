package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dailybrief/internal/core"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func testItem(source, externalID, hash string) core.Item {
	return core.Item{
		ID:          uuid.NewString(),
		Source:      source,
		ExternalID:  externalID,
		Title:       "Test Item " + externalID,
		Summary:     "A short summary.",
		URL:         "https://example.com/" + externalID,
		IngestedAt:  time.Now().UTC(),
		ContentHash: hash,
	}
}

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.db == nil {
		t.Error("Store database should not be nil")
	}

	dbPath := filepath.Join(tmpDir, "dailybrief.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should be created")
	}
}

func TestNewStore_InvalidDirectory(t *testing.T) {
	// Try to create store in a file (not directory)
	tmpDir := t.TempDir()
	invalidPath := filepath.Join(tmpDir, "file.txt")
	_ = os.WriteFile(invalidPath, []byte("test"), 0644)

	_, err := NewStore(invalidPath)
	if err == nil {
		t.Error("Expected error when creating store in invalid directory")
	}
}

func TestInsertItems_ConflictTolerant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := []core.Item{
		testItem("hackernews", "1", "hash-1"),
		testItem("hackernews", "2", "hash-2"),
	}

	inserted, err := store.InsertItems(ctx, batch)
	if err != nil {
		t.Fatalf("InsertItems failed: %v", err)
	}
	if inserted != 2 {
		t.Errorf("Expected 2 inserted, got %d", inserted)
	}

	// Re-inserting the same fingerprints must be a silent no-op.
	again, err := store.InsertItems(ctx, []core.Item{
		testItem("hackernews", "1", "hash-1"),
		testItem("hackernews", "3", "hash-3"),
	})
	if err != nil {
		t.Fatalf("InsertItems failed on second batch: %v", err)
	}
	if again != 1 {
		t.Errorf("Expected 1 newly inserted, got %d", again)
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.ItemCount != 3 {
		t.Errorf("Expected 3 stored items, got %d", stats.ItemCount)
	}
}

func TestInsertItems_EmptyBatch(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.InsertItems(context.Background(), nil)
	if err != nil {
		t.Fatalf("InsertItems failed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("Expected 0 inserted for empty batch, got %d", inserted)
	}
}

func TestUnprocessedItems_UpdateEnrichment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := testItem("rss", "guid-1", "hash-1")
	if _, err := store.InsertItems(ctx, []core.Item{item}); err != nil {
		t.Fatalf("InsertItems failed: %v", err)
	}

	unprocessed, err := store.UnprocessedItems(ctx, 10)
	if err != nil {
		t.Fatalf("UnprocessedItems failed: %v", err)
	}
	if len(unprocessed) != 1 {
		t.Fatalf("Expected 1 unprocessed item, got %d", len(unprocessed))
	}

	enriched := unprocessed[0]
	enriched.Embedding = []float64{0.1, 0.2, 0.3}
	genai := 0.9
	product := 0.2
	enriched.GenAINewsScore = &genai
	enriched.ProductIdeasScore = &product
	enriched.ScoreExplanation = "strongly about model releases"
	now := time.Now().UTC()
	enriched.ProcessedAt = &now

	if err := store.UpdateEnrichment(ctx, enriched); err != nil {
		t.Fatalf("UpdateEnrichment failed: %v", err)
	}

	remaining, err := store.UnprocessedItems(ctx, 10)
	if err != nil {
		t.Fatalf("UnprocessedItems failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected 0 unprocessed items after enrichment, got %d", len(remaining))
	}

	scored, err := store.ScoredItems(ctx, core.ScoreGenAINews, 0.6, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ScoredItems failed: %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("Expected 1 scored item, got %d", len(scored))
	}

	got := scored[0]
	if got.GenAINewsScore == nil || *got.GenAINewsScore != 0.9 {
		t.Errorf("Expected genai score 0.9, got %v", got.GenAINewsScore)
	}
	if len(got.Embedding) != 3 {
		t.Errorf("Expected embedding of length 3, got %d", len(got.Embedding))
	}
	if got.ProcessedAt == nil {
		t.Error("Expected ProcessedAt to be set")
	}
}

func TestScoredItems_ThresholdAndField(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	items := []core.Item{
		testItem("rss", "a", "hash-a"),
		testItem("rss", "b", "hash-b"),
	}
	if _, err := store.InsertItems(ctx, items); err != nil {
		t.Fatalf("InsertItems failed: %v", err)
	}

	now := time.Now().UTC()
	stored, _ := store.UnprocessedItems(ctx, 10)
	scores := []float64{0.8, 0.4}
	for i := range stored {
		stored[i].Embedding = []float64{0.5, 0.5}
		stored[i].GenAINewsScore = &scores[i]
		stored[i].ProcessedAt = &now
		if err := store.UpdateEnrichment(ctx, stored[i]); err != nil {
			t.Fatalf("UpdateEnrichment failed: %v", err)
		}
	}

	scored, err := store.ScoredItems(ctx, core.ScoreGenAINews, 0.6, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ScoredItems failed: %v", err)
	}
	if len(scored) != 1 {
		t.Errorf("Expected 1 item above threshold, got %d", len(scored))
	}

	// Unscored persona field should exclude everything.
	scored, err = store.ScoredItems(ctx, core.ScoreProductIdeas, 0.1, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ScoredItems failed: %v", err)
	}
	if len(scored) != 0 {
		t.Errorf("Expected 0 items for unscored persona, got %d", len(scored))
	}

	if _, err := store.ScoredItems(ctx, core.ScoreField("bogus"), 0, now); err == nil {
		t.Error("Expected error for unknown score field")
	}
}

func TestSaveDigest_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	digest := core.Digest{
		ID:          uuid.NewString(),
		Persona:     "genai",
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Intro:       "Today in GenAI.",
		Sections: []core.DigestSection{
			{
				Theme:        "Agents",
				Summary:      "Agent frameworks everywhere.",
				AvgScore:     0.8,
				ArticleCount: 2,
				Articles: []core.ArticleRef{
					{Title: "A", URL: "https://example.com/a", Source: "rss"},
					{Title: "B", URL: "https://example.com/b", Source: "hackernews"},
				},
			},
		},
		TotalArticles: 2,
		TotalClusters: 1,
	}

	if err := store.SaveDigest(ctx, digest); err != nil {
		t.Fatalf("SaveDigest failed: %v", err)
	}

	loaded, err := store.GetDigest(ctx, digest.ID)
	if err != nil {
		t.Fatalf("GetDigest failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected digest, got nil")
	}
	if loaded.Intro != digest.Intro {
		t.Errorf("Expected intro %q, got %q", digest.Intro, loaded.Intro)
	}
	if len(loaded.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(loaded.Sections))
	}
	if loaded.Sections[0].Theme != "Agents" {
		t.Errorf("Expected theme 'Agents', got %q", loaded.Sections[0].Theme)
	}
	if len(loaded.Sections[0].Articles) != 2 {
		t.Errorf("Expected 2 articles, got %d", len(loaded.Sections[0].Articles))
	}
}

func TestListDigests_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		digest := core.Digest{
			ID:          uuid.NewString(),
			Persona:     "genai",
			GeneratedAt: base.Add(time.Duration(i) * time.Minute),
			Intro:       "intro",
		}
		if err := store.SaveDigest(ctx, digest); err != nil {
			t.Fatalf("SaveDigest failed: %v", err)
		}
	}

	digests, err := store.ListDigests(ctx, 2)
	if err != nil {
		t.Fatalf("ListDigests failed: %v", err)
	}
	if len(digests) != 2 {
		t.Fatalf("Expected 2 digests, got %d", len(digests))
	}
	if !digests[0].GeneratedAt.After(digests[1].GeneratedAt) {
		t.Error("Expected digests ordered most recent first")
	}

	latest, err := store.LatestDigest(ctx, "genai")
	if err != nil {
		t.Fatalf("LatestDigest failed: %v", err)
	}
	if latest == nil || !latest.GeneratedAt.Equal(digests[0].GeneratedAt) {
		t.Error("LatestDigest should match the first listed digest")
	}

	missing, err := store.LatestDigest(ctx, "product")
	if err != nil {
		t.Fatalf("LatestDigest failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for persona with no digests")
	}
}

func TestGetDigest_Missing(t *testing.T) {
	store := newTestStore(t)

	digest, err := store.GetDigest(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetDigest failed: %v", err)
	}
	if digest != nil {
		t.Error("Expected nil for missing digest")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertItems(ctx, []core.Item{testItem("rss", "1", "hash-1")}); err != nil {
		t.Fatalf("InsertItems failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.ItemCount != 0 || stats.DigestCount != 0 {
		t.Errorf("Expected empty store, got %d items, %d digests", stats.ItemCount, stats.DigestCount)
	}
}
