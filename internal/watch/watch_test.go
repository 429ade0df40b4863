package watch

import (
	"os"
	"path/filepath"
	"testing"

	"logtriage/internal/incident"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		minSeverity incident.Severity
		wantMatch   bool
		wantRule    string
	}{
		{
			name:      "known signature matches",
			line:      "postgres connection failed: ECONNREFUSED",
			wantMatch: true,
			wantRule:  "database-connection-failure",
		},
		{
			name:      "generic error is ignored",
			line:      "some error happened in the handler",
			wantMatch: false,
		},
		{
			name:      "quiet line is ignored",
			line:      "request completed in 12ms",
			wantMatch: false,
		},
		{
			name:        "below severity threshold",
			line:        "config parse failed: missing required field",
			minSeverity: incident.SeverityHigh,
			wantMatch:   false,
		},
		{
			name:        "at severity threshold",
			line:        "dial backend: ECONNREFUSED",
			minSeverity: incident.SeverityHigh,
			wantMatch:   true,
			wantRule:    "connection-refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Match
			w := New(Options{
				MinSeverity: tt.minSeverity,
				OnMatch: func(m Match) error {
					got = append(got, m)
					return nil
				},
			})

			if err := w.classifyLine(tt.line); err != nil {
				t.Fatalf("classifyLine: %v", err)
			}

			if tt.wantMatch {
				if len(got) != 1 {
					t.Fatalf("got %d matches, want 1", len(got))
				}
				if got[0].RuleName != tt.wantRule {
					t.Errorf("RuleName = %q, want %q", got[0].RuleName, tt.wantRule)
				}
				if got[0].Line != tt.line {
					t.Errorf("Line = %q, want %q", got[0].Line, tt.line)
				}
			} else if len(got) != 0 {
				t.Errorf("got %d matches, want none", len(got))
			}
		})
	}
}

func TestClassifyNewContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	content := "service started\n" +
		"postgres gave ECONNREFUSED\n" +
		"\n" +
		"kernel: out of memory, killed process\n" +
		"all quiet again\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	var got []Match
	w := New(Options{
		FilePath: path,
		OnMatch: func(m Match) error {
			got = append(got, m)
			return nil
		},
	})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	w.file = f
	w.offset = 0

	if err := w.classifyNewContent(); err != nil {
		t.Fatalf("classifyNewContent: %v", err)
	}

	wantRules := []string{"database-connection-failure", "out-of-memory"}
	if len(got) != len(wantRules) {
		t.Fatalf("got %d matches, want %d: %+v", len(got), len(wantRules), got)
	}
	for i, want := range wantRules {
		if got[i].RuleName != want {
			t.Errorf("match %d rule = %q, want %q", i, got[i].RuleName, want)
		}
	}

	if w.offset != int64(len(content)) {
		t.Errorf("offset = %d, want %d", w.offset, len(content))
	}

	// A second pass with no new content emits nothing.
	got = nil
	if err := w.classifyNewContent(); err != nil {
		t.Fatalf("second classifyNewContent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d matches on unchanged file, want none", len(got))
	}
}
