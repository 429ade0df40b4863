package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"logtriage/internal/incident"
	"logtriage/internal/pipeline"
	"logtriage/internal/rules"
)

func sampleResponse() *pipeline.Response {
	return &pipeline.Response{
		Success: true,
		Analysis: &incident.Record{
			IssueType:    "Database connection failure",
			RootCause:    "The database process is down.",
			SuggestedFix: []string{"Restart the database", "Check connectivity"},
			Severity:     incident.SeverityCritical,
			Category:     "database",
			Confidence:   95,
			RelatedLogs:  []string{"ECONNREFUSED"},
			LogHash:      "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			AnalyzedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Metadata: pipeline.Metadata{
			LogSize:         120,
			RedactedLogSize: 100,
			Model:           "llama3.2",
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"table", FormatTable},
		{"text", FormatText},
		{"anything-else", FormatText},
		{"", FormatText},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteResponseText(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatText).WriteResponse(sampleResponse()); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Database connection failure",
		"Critical",
		"database",
		"95%",
		"1. Restart the database",
		"model=llama3.2",
		"hash=0123456789ab", // truncated hash
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteResponseTextFallbackNote(t *testing.T) {
	resp := sampleResponse()
	resp.Metadata.Fallback = true
	resp.Metadata.FallbackReason = "transport_failure"

	var buf bytes.Buffer
	if err := New(&buf, FormatText).WriteResponse(resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if !strings.Contains(buf.String(), "transport_failure") {
		t.Errorf("fallback note missing:\n%s", buf.String())
	}
}

func TestWriteResponseTextError(t *testing.T) {
	resp := &pipeline.Response{
		Success: false,
		Error: &pipeline.RequestError{
			Code:    pipeline.CodeEmptyInput,
			Message: "log text is empty or contains only whitespace",
		},
	}

	var buf bytes.Buffer
	if err := New(&buf, FormatText).WriteResponse(resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if !strings.Contains(buf.String(), "Analysis failed") {
		t.Errorf("error output missing failure line:\n%s", buf.String())
	}
}

func TestWriteResponseJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatJSON).WriteResponse(sampleResponse()); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}

	var decoded pipeline.Response
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !decoded.Success {
		t.Error("decoded Success = false")
	}
	if decoded.Analysis == nil || decoded.Analysis.Severity != incident.SeverityCritical {
		t.Errorf("decoded analysis mismatch: %+v", decoded.Analysis)
	}
}

func TestWriteRules(t *testing.T) {
	ruleList := rules.New().Rules()

	var buf bytes.Buffer
	if err := New(&buf, FormatText).WriteRules(ruleList); err != nil {
		t.Fatalf("WriteRules: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "database-connection-failure") {
		t.Errorf("rule table missing first rule:\n%s", out)
	}

	buf.Reset()
	if err := New(&buf, FormatJSON).WriteRules(ruleList); err != nil {
		t.Fatalf("WriteRules json: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("rule json invalid: %v", err)
	}
	if len(rows) != len(ruleList) {
		t.Errorf("json rows = %d, want %d", len(rows), len(ruleList))
	}
	if rows[0]["priority"] != float64(1) {
		t.Errorf("first priority = %v, want 1", rows[0]["priority"])
	}
}

func TestColorizeLine(t *testing.T) {
	line := "something broke"

	if got := ColorizeLine(incident.SeverityHigh, line, false); got != line {
		t.Errorf("uncolored line modified: %q", got)
	}

	got := ColorizeLine(incident.SeverityHigh, line, true)
	if !strings.Contains(got, line) || got == line {
		t.Errorf("colored line not wrapped: %q", got)
	}
	if !strings.HasSuffix(got, colorReset) {
		t.Errorf("colored line missing reset: %q", got)
	}
}
