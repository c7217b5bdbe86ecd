// Package fingerprint derives the stable content identity used for
// idempotent ingestion.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"dailybrief/internal/core"
)

// fieldSeparator joins fields before hashing. Normalized input never
// contains this sequence, so the joined form is unambiguous.
const fieldSeparator = "::"

// Fields computes a deterministic hex digest over the given textual fields
// in order. Identical field tuples always produce identical digests.
func Fields(values ...string) string {
	joined := strings.Join(values, fieldSeparator)
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}

// Item computes the dedup fingerprint for an item from its source,
// external id, URL, title, and best-available body text.
func Item(it core.Item) string {
	return Fields(it.Source, it.ExternalID, it.URL, it.Title, it.BodyText())
}
