// Package ingest admits normalized items into storage, deduplicating by
// content fingerprint.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"dailybrief/internal/core"
	"dailybrief/internal/fingerprint"
	"dailybrief/internal/logger"

	"github.com/google/uuid"
)

// Storage is the slice of the store the ingestor needs: a conflict-tolerant
// bulk insert keyed by fingerprint that reports how many rows were new.
type Storage interface {
	InsertItems(ctx context.Context, items []core.Item) (int, error)
}

// Ingestor deduplicates candidate items and persists the survivors.
type Ingestor struct {
	store Storage
	log   *slog.Logger
}

// NewIngestor creates an ingestor backed by the given storage.
func NewIngestor(store Storage) *Ingestor {
	return &Ingestor{
		store: store,
		log:   logger.Get(),
	}
}

// Ingest fingerprints every candidate, drops in-batch duplicates keeping
// the first occurrence, and bulk-inserts the rest. Fingerprints already in
// storage are silently skipped by the insert, so repeated runs over
// overlapping source windows are idempotent. Returns the count of newly
// admitted rows; storage errors surface unchanged.
func (in *Ingestor) Ingest(ctx context.Context, candidates []core.Item) (int, error) {
	prepared := in.prepare(candidates)
	if len(prepared) == 0 {
		in.log.Info("Ingestion skipped, no new candidates")
		return 0, nil
	}

	inserted, err := in.store.InsertItems(ctx, prepared)
	if err != nil {
		return 0, err
	}

	in.log.Info("Ingestion persisted items",
		"attempted", len(prepared),
		"inserted", inserted,
		"batch_duplicates", len(candidates)-len(prepared),
	)
	return inserted, nil
}

// prepare assigns identities and fingerprints, keeping only the first
// occurrence of each fingerprint within the batch.
func (in *Ingestor) prepare(candidates []core.Item) []core.Item {
	seen := make(map[string]bool, len(candidates))
	prepared := make([]core.Item, 0, len(candidates))

	now := time.Now().UTC()
	for _, item := range candidates {
		item.ContentHash = fingerprint.Item(item)
		if seen[item.ContentHash] {
			continue
		}
		seen[item.ContentHash] = true

		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.IngestedAt.IsZero() {
			item.IngestedAt = now
		}

		prepared = append(prepared, item)
	}

	return prepared
}
