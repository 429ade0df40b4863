package cache

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"logtriage/internal/incident"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() incident.Record {
	return incident.Record{
		IssueType:    "Database connection failure",
		RootCause:    "The database refused the connection.",
		SuggestedFix: []string{"Check the database is running"},
		Severity:     incident.SeverityCritical,
		Category:     "database",
		Confidence:   95,
		RelatedLogs:  []string{"ECONNREFUSED"},
		LogHash:      Fingerprint("refused"),
		AnalyzedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("connection refused")
	b := Fingerprint("connection refused")
	c := Fingerprint("connection refused!")

	if a != b {
		t.Errorf("same input produced different fingerprints: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different inputs produced the same fingerprint")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(a))
	}
	if !hashPattern.MatchString(a) {
		t.Errorf("fingerprint %q is not lowercase hex", a)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	record := testRecord()
	hash := record.LogHash

	if _, ok := store.Get(hash); ok {
		t.Fatal("Get returned a hit before any Put")
	}

	if err := store.Put(hash, record); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok := store.Get(hash)
	if !ok {
		t.Fatal("Get missed immediately after Put")
	}
	if entry.Hash != hash {
		t.Errorf("entry.Hash = %s, want %s", entry.Hash, hash)
	}
	if diff := cmp.Diff(record, entry.Record); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if !entry.ExpiresAt.Equal(entry.CachedAt.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want CachedAt + 1h", entry.ExpiresAt)
	}
}

func TestFileStoreTTLExpiry(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	record := testRecord()
	if err := store.Put(record.LogHash, record); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Still valid right at the expiry instant.
	store.now = func() time.Time { return base.Add(time.Hour) }
	if _, ok := store.Get(record.LogHash); !ok {
		t.Error("entry expired exactly at the TTL boundary")
	}

	// A moment past the TTL it reads as absent.
	store.now = func() time.Time { return base.Add(time.Hour + time.Second) }
	if _, ok := store.Get(record.LogHash); ok {
		t.Error("expired entry was still served")
	}

	// A fresh Put for the same hash revives it.
	if err := store.Put(record.LogHash, record); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if _, ok := store.Get(record.LogHash); !ok {
		t.Error("rewritten entry was not served")
	}
}

func TestFileStoreCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	hash := Fingerprint("corrupt")
	path := filepath.Join(dir, hash+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt entry: %v", err)
	}

	if _, ok := store.Get(hash); ok {
		t.Error("corrupt entry was served as a hit")
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	record := testRecord()
	if err := store.Put(record.LogHash, record); err != nil {
		t.Fatalf("first Put: %v", err)
	}

	record.Confidence = 70
	if err := store.Put(record.LogHash, record); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	entry, ok := store.Get(record.LogHash)
	if !ok {
		t.Fatal("Get missed after overwrite")
	}
	if entry.Record.Confidence != 70 {
		t.Errorf("Confidence = %d, want the overwritten value 70", entry.Record.Confidence)
	}
}

func TestFileStoreRejectsBadHash(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	badHashes := []string{
		"",
		"short",
		"../../../etc/passwd",
		"ABCDEF0000000000000000000000000000000000000000000000000000000000", // uppercase
	}

	for _, hash := range badHashes {
		if _, ok := store.Get(hash); ok {
			t.Errorf("Get(%q) returned a hit", hash)
		}
		if err := store.Put(hash, testRecord()); err == nil {
			t.Errorf("Put(%q) did not fail", hash)
		}
	}
}
