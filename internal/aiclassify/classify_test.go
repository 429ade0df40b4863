package aiclassify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"logtriage/internal/config"
	"logtriage/internal/incident"
	"logtriage/internal/llm"
)

// stubProvider returns a canned response or error for every Chat call.
type stubProvider struct {
	content string
	err     error
}

func (p *stubProvider) Chat(ctx context.Context, messages []llm.Message, opts *llm.ChatOptions) (*llm.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.content, Model: opts.Model}, nil
}

func (p *stubProvider) Heartbeat(ctx context.Context) error { return p.err }

func (p *stubProvider) ModelAvailable(ctx context.Context, model string) (bool, error) {
	return p.err == nil, p.err
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider: "ollama",
			Timeout:  5 * time.Second,
			Ollama:   config.OllamaConfig{Model: "llama3.2"},
		},
	}
}

func newTestClassifier(t *testing.T, provider llm.Provider) *Classifier {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := New(provider, testConfig(), logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClassifyValidResponse(t *testing.T) {
	c := newTestClassifier(t, &stubProvider{content: "```json\n" + `{
		"issue_type": "Database connection failure",
		"root_cause": "The database is down.",
		"suggested_fix": ["Restart the database"],
		"severity": "critical",
		"category": "database",
		"confidence": 95,
		"related_logs": ["ECONNREFUSED"]
	}` + "\n```"})

	rec, failure := c.Classify(context.Background(), "postgres ECONNREFUSED")
	if failure != nil {
		t.Fatalf("unexpected failure: %v", failure)
	}
	if rec.IssueType != "Database connection failure" {
		t.Errorf("IssueType = %q", rec.IssueType)
	}
	if rec.Severity != incident.SeverityCritical {
		t.Errorf("Severity = %v, want Critical", rec.Severity)
	}
	if rec.Category != "database" {
		t.Errorf("Category = %q, want database", rec.Category)
	}
	if rec.Confidence != 95 {
		t.Errorf("Confidence = %d, want 95", rec.Confidence)
	}
}

func TestClassifyNormalizesFields(t *testing.T) {
	// Severity, category, and confidence outside the recognized ranges
	// are coerced, never rejected.
	c := newTestClassifier(t, &stubProvider{content: `{
		"issue_type": "Something odd",
		"root_cause": "Unclear.",
		"suggested_fix": ["Look closer"],
		"severity": "catastrophic",
		"category": "Mainframe Gremlins",
		"confidence": 120.0
	}`})

	rec, failure := c.Classify(context.Background(), "odd log")
	if failure != nil {
		t.Fatalf("unexpected failure: %v", failure)
	}
	if rec.Severity != incident.SeverityMedium {
		t.Errorf("Severity = %v, want Medium for an unrecognized label", rec.Severity)
	}
	if rec.Category != "unknown" {
		t.Errorf("Category = %q, want unknown", rec.Category)
	}
	if rec.Confidence != 100 {
		t.Errorf("Confidence = %d, want clamped to 100", rec.Confidence)
	}
	if rec.RelatedLogs == nil {
		t.Error("RelatedLogs = nil, want empty slice when the field is omitted")
	}
}

func TestClassifyTransportFailure(t *testing.T) {
	wantErr := errors.New("connection refused")
	c := newTestClassifier(t, &stubProvider{err: wantErr})

	_, failure := c.Classify(context.Background(), "anything")
	if failure == nil {
		t.Fatal("expected a failure")
	}
	if failure.Kind != TransportFailure {
		t.Errorf("Kind = %q, want %q", failure.Kind, TransportFailure)
	}
	if !errors.Is(failure, wantErr) {
		t.Error("failure does not unwrap to the transport error")
	}
}

func TestClassifyInvalidResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no json", "I am unable to analyze this log."},
		{"unbalanced json", `{"issue_type": "Timeout"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, &stubProvider{content: tt.content})
			_, failure := c.Classify(context.Background(), "anything")
			if failure == nil {
				t.Fatal("expected a failure")
			}
			if failure.Kind != InvalidResponse {
				t.Errorf("Kind = %q, want %q", failure.Kind, InvalidResponse)
			}
		})
	}
}

func TestClassifySchemaViolation(t *testing.T) {
	// Valid JSON missing required fields is a schema violation, and the
	// failure names what was missing.
	c := newTestClassifier(t, &stubProvider{content: `{
		"issue_type": "Timeout",
		"confidence": 80
	}`})

	_, failure := c.Classify(context.Background(), "anything")
	if failure == nil {
		t.Fatal("expected a failure")
	}
	if failure.Kind != SchemaViolation {
		t.Fatalf("Kind = %q, want %q", failure.Kind, SchemaViolation)
	}

	for _, field := range []string{"root_cause", "suggested_fix", "severity", "category"} {
		if !slices.Contains(failure.Missing, field) {
			t.Errorf("Missing does not include %q: %v", field, failure.Missing)
		}
	}
}

func TestClassifyEmptyFixListViolatesSchema(t *testing.T) {
	c := newTestClassifier(t, &stubProvider{content: `{
		"issue_type": "Timeout",
		"root_cause": "Slow dependency.",
		"suggested_fix": [],
		"severity": "high",
		"category": "network",
		"confidence": 80
	}`})

	_, failure := c.Classify(context.Background(), "anything")
	if failure == nil {
		t.Fatal("expected a failure")
	}
	if failure.Kind != SchemaViolation {
		t.Errorf("Kind = %q, want %q", failure.Kind, SchemaViolation)
	}
}

func TestFailureError(t *testing.T) {
	f := &Failure{Kind: SchemaViolation, Missing: []string{"severity", "category"}}
	got := f.Error()
	if got != "ai classification failed (schema_violation): missing fields severity, category" {
		t.Errorf("Error() = %q", got)
	}
}
