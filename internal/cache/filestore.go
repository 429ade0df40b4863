package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"logtriage/internal/incident"
)

// hashPattern guards against hashes that could escape the cache directory.
var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// FileStore persists cache entries as one JSON file per hash under a
// directory. Writes go through a temp file and rename, so concurrent
// writers to the same hash settle on last-writer-wins without ever
// exposing a torn entry to readers.
type FileStore struct {
	dir    string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewFileStore creates a FileStore rooted at dir, creating the directory
// if needed. A non-positive ttl falls back to DefaultTTL.
func NewFileStore(dir string, ttl time.Duration, logger *slog.Logger) (*FileStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	return &FileStore{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Get returns the entry for hash if present and unexpired.
// Every failure mode is treated as a miss.
func (s *FileStore) Get(hash string) (*Entry, bool) {
	if !hashPattern.MatchString(hash) {
		return nil, false
	}

	data, err := os.ReadFile(s.path(hash))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cache read failed", "hash", hash, "error", err)
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn("cache entry corrupt", "hash", hash, "error", err)
		return nil, false
	}

	if entry.Expired(s.now()) {
		return nil, false
	}

	return &entry, true
}

// Put writes the record for hash, overwriting any previous entry.
func (s *FileStore) Put(hash string, record incident.Record) error {
	if !hashPattern.MatchString(hash) {
		return fmt.Errorf("invalid cache hash %q", hash)
	}

	now := s.now()
	entry := Entry{
		Hash:      hash,
		Record:    record,
		CachedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, hash+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(hash)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

func (s *FileStore) path(hash string) string {
	return filepath.Join(s.dir, hash+".json")
}
