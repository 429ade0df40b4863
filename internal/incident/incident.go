// Package incident defines the canonical incident record produced by the
// analysis pipeline, along with severity and category handling shared by
// the rule classifier and the AI classifier adapter.
package incident

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity represents the impact level of a detected incident.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the string representation of a Severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "Low"
	}
}

// MarshalJSON implements json.Marshaler for Severity.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler for Severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseSeverity(str)
	return nil
}

// ParseSeverity converts a string to a Severity. Unrecognized values map
// to Medium so an incident is never silently downgraded to Low.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "info", "informational":
		return SeverityLow
	case "medium", "warn", "warning", "moderate":
		return SeverityMedium
	case "high", "error", "severe":
		return SeverityHigh
	case "critical", "fatal", "crit":
		return SeverityCritical
	default:
		return SeverityMedium
	}
}

// Categories is the recognized set of incident categories.
// Free-form classifier output is normalized against this set.
var Categories = []string{
	"network",
	"database",
	"application",
	"security",
	"performance",
	"authentication",
	"authorization",
	"configuration",
	"resource",
	"runtime",
	"informational",
	"infrastructure",
	"unknown",
}

// NormalizeCategory lowercases and trims a category string and maps
// anything outside the recognized set to "unknown".
func NormalizeCategory(s string) string {
	c := strings.ToLower(strings.TrimSpace(s))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return "unknown"
}

// Record is the canonical output schema for one analyzed log excerpt.
// Every Record returned to a caller has all seven core fields populated
// and Confidence within [0,100].
type Record struct {
	IssueType        string    `json:"issue_type"`
	RootCause        string    `json:"root_cause"`
	SuggestedFix     []string  `json:"suggested_fix"`
	Severity         Severity  `json:"severity"`
	Category         string    `json:"category"`
	Confidence       int       `json:"confidence"`
	RelatedLogs      []string  `json:"related_logs"`
	LogHash          string    `json:"log_hash"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
}

// ClampConfidence coerces a confidence value into the valid [0,100] range.
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
