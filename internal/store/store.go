// Package store provides SQLite-backed persistence for ingested items and
// generated digests.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dailybrief/internal/core"

	_ "github.com/mattn/go-sqlite3"
)

// Store represents the SQLite-based persistence layer
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "dailybrief.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	itemsTable := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		external_id TEXT NOT NULL,
		title TEXT NOT NULL,
		summary TEXT,
		content TEXT,
		url TEXT NOT NULL,
		language TEXT,
		published_at DATETIME,
		ingested_at DATETIME NOT NULL,
		engagement INTEGER,
		metadata TEXT,
		content_hash TEXT NOT NULL UNIQUE,
		embedding TEXT,
		genai_news_score REAL,
		product_ideas_score REAL,
		score_explanation TEXT,
		llm_summary TEXT,
		processed_at DATETIME,
		UNIQUE (source, external_id)
	);`

	digestsTable := `
	CREATE TABLE IF NOT EXISTS digests (
		id TEXT PRIMARY KEY,
		persona TEXT NOT NULL,
		generated_at DATETIME NOT NULL,
		intro TEXT NOT NULL,
		content TEXT NOT NULL,
		total_articles INTEGER NOT NULL,
		total_clusters INTEGER NOT NULL
	);`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_items_source ON items (source);`,
		`CREATE INDEX IF NOT EXISTS idx_items_processed_at ON items (processed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_digests_persona ON digests (persona, generated_at);`,
	}

	statements := append([]string{itemsTable, digestsTable}, indexes...)
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertItems performs a conflict-tolerant bulk insert keyed by the content
// fingerprint. Items whose fingerprint (or source/external id pair) already
// exists are silently skipped. The whole batch runs in one transaction, and
// the count of newly admitted rows is returned.
func (s *Store) InsertItems(ctx context.Context, items []core.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR IGNORE INTO items
	(id, source, external_id, title, summary, content, url, language,
	 published_at, ingested_at, engagement, metadata, content_hash)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, item := range items {
		metadata, _ := json.Marshal(item.Metadata)

		res, err := stmt.ExecContext(ctx,
			item.ID,
			item.Source,
			item.ExternalID,
			item.Title,
			item.Summary,
			item.Content,
			item.URL,
			item.Language,
			nullableTime(item.PublishedAt),
			item.IngestedAt,
			nullableInt(item.Engagement),
			string(metadata),
			item.ContentHash,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert item %s/%s: %w", item.Source, item.ExternalID, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert batch: %w", err)
	}

	return inserted, nil
}

const itemColumns = `id, source, external_id, title, summary, content, url, language,
	published_at, ingested_at, engagement, metadata, content_hash,
	embedding, genai_news_score, product_ideas_score, score_explanation,
	llm_summary, processed_at`

// UnprocessedItems returns items that have not yet been enriched with an
// embedding and relevance scores, oldest first.
func (s *Store) UnprocessedItems(ctx context.Context, limit int) ([]core.Item, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM items
	WHERE processed_at IS NULL
	ORDER BY ingested_at ASC
	LIMIT ?`, itemColumns)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanItems(rows)
}

// ScoredItems returns processed items whose persona score meets the
// threshold within the given window, oldest first so clustering input
// order is stable across calls.
func (s *Store) ScoredItems(ctx context.Context, field core.ScoreField, minScore float64, since time.Time) ([]core.Item, error) {
	column, err := scoreColumn(field)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
	SELECT %s FROM items
	WHERE processed_at IS NOT NULL
	  AND processed_at >= ?
	  AND %s >= ?
	ORDER BY ingested_at ASC`, itemColumns, column)

	rows, err := s.db.QueryContext(ctx, query, since, minScore)
	if err != nil {
		return nil, fmt.Errorf("failed to query scored items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanItems(rows)
}

// scoreColumn maps a score field to its column, rejecting anything else so
// the field name can be interpolated safely.
func scoreColumn(field core.ScoreField) (string, error) {
	switch field {
	case core.ScoreGenAINews:
		return "genai_news_score", nil
	case core.ScoreProductIdeas:
		return "product_ideas_score", nil
	default:
		return "", fmt.Errorf("unknown score field %q", field)
	}
}

// UpdateEnrichment persists the embedding, relevance scores, and processing
// timestamp produced for an item. Rows are written once by this path; the
// digest pipeline never mutates items.
func (s *Store) UpdateEnrichment(ctx context.Context, item core.Item) error {
	embedding, _ := json.Marshal(item.Embedding)

	query := `
	UPDATE items
	SET embedding = ?, genai_news_score = ?, product_ideas_score = ?,
	    score_explanation = ?, llm_summary = ?, processed_at = ?
	WHERE id = ?`

	_, err := s.db.ExecContext(ctx, query,
		string(embedding),
		nullableFloat(item.GenAINewsScore),
		nullableFloat(item.ProductIdeasScore),
		item.ScoreExplanation,
		item.LLMSummary,
		nullableTime(item.ProcessedAt),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update enrichment for item %s: %w", item.ID, err)
	}

	return nil
}

// SaveDigest persists a generated digest as an opaque JSON document plus
// denormalized scalar columns for querying.
func (s *Store) SaveDigest(ctx context.Context, digest core.Digest) error {
	content, err := json.Marshal(digest)
	if err != nil {
		return fmt.Errorf("failed to marshal digest: %w", err)
	}

	query := `
	INSERT INTO digests (id, persona, generated_at, intro, content, total_articles, total_clusters)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		digest.ID,
		digest.Persona,
		digest.GeneratedAt,
		digest.Intro,
		string(content),
		digest.TotalArticles,
		digest.TotalClusters,
	)
	if err != nil {
		return fmt.Errorf("failed to save digest %s: %w", digest.ID, err)
	}

	return nil
}

// GetDigest retrieves a digest document by ID.
func (s *Store) GetDigest(ctx context.Context, id string) (*core.Digest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT content FROM digests WHERE id = ?`, id)

	var content string
	if err := row.Scan(&content); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get digest %s: %w", id, err)
	}

	var digest core.Digest
	if err := json.Unmarshal([]byte(content), &digest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal digest %s: %w", id, err)
	}

	return &digest, nil
}

// LatestDigest returns the most recent digest for a persona, or nil when
// none exists.
func (s *Store) LatestDigest(ctx context.Context, persona string) (*core.Digest, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT content FROM digests
	WHERE persona = ?
	ORDER BY generated_at DESC
	LIMIT 1`, persona)

	var content string
	if err := row.Scan(&content); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get latest digest for %s: %w", persona, err)
	}

	var digest core.Digest
	if err := json.Unmarshal([]byte(content), &digest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal digest: %w", err)
	}

	return &digest, nil
}

// ListDigests returns recent digest documents, most recent first.
func (s *Store) ListDigests(ctx context.Context, limit int) ([]core.Digest, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT content FROM digests
	ORDER BY generated_at DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list digests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var digests []core.Digest
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan digest: %w", err)
		}

		var digest core.Digest
		if err := json.Unmarshal([]byte(content), &digest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal digest: %w", err)
		}
		digests = append(digests, digest)
	}

	return digests, rows.Err()
}

// Clear removes all stored items and digests.
func (s *Store) Clear(ctx context.Context) error {
	for _, query := range []string{`DELETE FROM items`, `DELETE FROM digests`} {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
	}
	return nil
}

// Stats represents storage statistics
type Stats struct {
	ItemCount      int
	ProcessedCount int
	HighGenAI      int
	HighProduct    int
	DigestCount    int
	DatabaseSize   int64
	LastUpdated    time.Time
}

// GetStats returns statistics about stored items and digests
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	queries := map[string]*int{
		`SELECT COUNT(*) FROM items`:                                    &stats.ItemCount,
		`SELECT COUNT(*) FROM items WHERE processed_at IS NOT NULL`:     &stats.ProcessedCount,
		`SELECT COUNT(*) FROM items WHERE genai_news_score >= 0.7`:      &stats.HighGenAI,
		`SELECT COUNT(*) FROM items WHERE product_ideas_score >= 0.7`:   &stats.HighProduct,
		`SELECT COUNT(*) FROM digests`:                                  &stats.DigestCount,
	}

	for query, target := range queries {
		if err := s.db.QueryRowContext(ctx, query).Scan(target); err != nil {
			return nil, fmt.Errorf("failed to get count: %w", err)
		}
	}

	if fileInfo, err := os.Stat(s.path); err == nil {
		stats.DatabaseSize = fileInfo.Size()
		stats.LastUpdated = fileInfo.ModTime()
	}

	return stats, nil
}

// scanItems reads item rows into core.Item values.
func scanItems(rows *sql.Rows) ([]core.Item, error) {
	var items []core.Item

	for rows.Next() {
		var (
			item             core.Item
			summary          sql.NullString
			content          sql.NullString
			language         sql.NullString
			publishedAt      sql.NullTime
			engagement       sql.NullInt64
			metadata         sql.NullString
			embedding        sql.NullString
			genaiScore       sql.NullFloat64
			productScore     sql.NullFloat64
			scoreExplanation sql.NullString
			llmSummary       sql.NullString
			processedAt      sql.NullTime
		)

		err := rows.Scan(
			&item.ID,
			&item.Source,
			&item.ExternalID,
			&item.Title,
			&summary,
			&content,
			&item.URL,
			&language,
			&publishedAt,
			&item.IngestedAt,
			&engagement,
			&metadata,
			&item.ContentHash,
			&embedding,
			&genaiScore,
			&productScore,
			&scoreExplanation,
			&llmSummary,
			&processedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		item.Summary = summary.String
		item.Content = content.String
		item.Language = language.String
		item.ScoreExplanation = scoreExplanation.String
		item.LLMSummary = llmSummary.String

		if publishedAt.Valid {
			t := publishedAt.Time
			item.PublishedAt = &t
		}
		if processedAt.Valid {
			t := processedAt.Time
			item.ProcessedAt = &t
		}
		if engagement.Valid {
			n := int(engagement.Int64)
			item.Engagement = &n
		}
		if genaiScore.Valid {
			v := genaiScore.Float64
			item.GenAINewsScore = &v
		}
		if productScore.Valid {
			v := productScore.Float64
			item.ProductIdeasScore = &v
		}
		if metadata.Valid && metadata.String != "" {
			_ = json.Unmarshal([]byte(metadata.String), &item.Metadata)
		}
		if embedding.Valid && embedding.String != "" {
			_ = json.Unmarshal([]byte(embedding.String), &item.Embedding)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
