// Package cache provides content-addressed storage of analysis results.
//
// Results are keyed by a SHA-256 fingerprint of the redacted log text, so
// resubmitting the same excerpt is served without re-invoking a classifier.
// Entries expire lazily: an entry older than the TTL is treated as absent
// on read and overwritten by the next successful write for the same hash.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"logtriage/internal/incident"
)

// DefaultTTL is how long a cached analysis remains valid after it is written.
const DefaultTTL = 24 * time.Hour

// Fingerprint returns the hex-encoded SHA-256 hash of the given text.
// It must be computed over redacted text: anything unstable in the input
// (timestamps, addresses) would otherwise defeat deduplication.
func Fingerprint(redactedText string) string {
	h := sha256.Sum256([]byte(redactedText))
	return hex.EncodeToString(h[:])
}

// Entry is one cached analysis result.
type Entry struct {
	Hash      string          `json:"hash"`
	Record    incident.Record `json:"record"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry's TTL has elapsed at the given time.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is a key-value abstraction over cached analysis results.
//
// Get fails soft: a missing entry, an expired entry, a corrupt record, or
// an I/O error all surface as (nil, false). Put is best-effort; callers
// log and swallow its error rather than failing the enclosing request.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(hash string) (*Entry, bool)
	Put(hash string, record incident.Record) error
}
