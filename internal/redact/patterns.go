package redact

import (
	"regexp"
)

// Pattern defines a built-in pattern for sensitive-data detection.
// Every match is replaced with the category's fixed Placeholder token.
type Pattern struct {
	Name        string
	Regex       *regexp.Regexp
	Placeholder string
	Description string
}

// Built-in detection patterns for common sensitive data in logs.
//
// Placeholders deliberately contain no digits, dots, slashes, or separators
// so that no pattern can match a placeholder produced by another pattern.
// That property is what makes redaction idempotent.
var (
	// ISO-8601-like timestamps: 2024-01-01T10:00:00Z, 2024-01-01 10:00:00.123
	timestampRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)

	// Bare URLs: http://example.com/path?x=1
	urlRegex = regexp.MustCompile(`\bhttps?://[^\s"'<>]+`)

	// Email addresses: user@example.com
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Key/token/secret assignments followed by 20+ credential-shaped characters:
	// api_key=..., token: ..., password = "..."
	secretRegex = regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|token|secret|password|passwd|pwd|bearer|credential)["']?\s*[:=]\s*["']?[A-Za-z0-9_\-]{20,}`)

	// Absolute file paths with at least two segments: /var/log/app.log
	pathRegex = regexp.MustCompile(`/(?:[A-Za-z0-9._-]+/)+[A-Za-z0-9._-]+`)

	// IPv4 addresses: 192.168.1.1
	ipv4Regex = regexp.MustCompile(`\b(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)

	// Credit-card-shaped digit runs: 13-16 digits, optionally 4-4-4-x grouped
	cardRegex = regexp.MustCompile(`\b(?:\d{13,16}|\d{4}[- ]\d{4}[- ]\d{4}[- ]\d{1,4})\b`)

	// SSN-shaped sequences: 123-45-6789, 123 45 6789, 123456789
	ssnRegex = regexp.MustCompile(`\b\d{3}[- ]?\d{2}[- ]?\d{4}\b`)
)

// BuiltInPatterns contains all available redaction patterns by name.
// They can be selectively enabled via configuration.
var BuiltInPatterns = map[string]Pattern{
	"timestamp": {
		Name:        "timestamp",
		Regex:       timestampRegex,
		Placeholder: "[TIMESTAMP]",
		Description: "ISO-8601-like timestamps",
	},
	"url": {
		Name:        "url",
		Regex:       urlRegex,
		Placeholder: "[URL]",
		Description: "HTTP and HTTPS URLs",
	},
	"email": {
		Name:        "email",
		Regex:       emailRegex,
		Placeholder: "[EMAIL]",
		Description: "Email addresses",
	},
	"secret": {
		Name:        "secret",
		Regex:       secretRegex,
		Placeholder: "[SECRET]",
		Description: "API key, token, and password assignments",
	},
	"path": {
		Name:        "path",
		Regex:       pathRegex,
		Placeholder: "[PATH]",
		Description: "Absolute file paths",
	},
	"ipv4": {
		Name:        "ipv4",
		Regex:       ipv4Regex,
		Placeholder: "[IPV4]",
		Description: "IPv4 addresses",
	},
	"card": {
		Name:        "card",
		Regex:       cardRegex,
		Placeholder: "[CARD]",
		Description: "Credit-card-shaped digit sequences",
	},
	"ssn": {
		Name:        "ssn",
		Regex:       ssnRegex,
		Placeholder: "[SSN]",
		Description: "SSN-shaped digit sequences",
	},
}

// patternOrder is the fixed application order.
//
// Timestamps run before the digit-run patterns so dates are never mistaken
// for card numbers, and URLs run before IPv4 so an address embedded in a
// URL collapses into a single [URL] token.
var patternOrder = []string{
	"timestamp",
	"url",
	"email",
	"secret",
	"path",
	"ipv4",
	"card",
	"ssn",
}

// DefaultPatterns returns all built-in pattern names in application order.
func DefaultPatterns() []string {
	out := make([]string, len(patternOrder))
	copy(out, patternOrder)
	return out
}

// GetPatterns returns the patterns matching the given names, preserving
// the fixed application order. Unknown names are silently ignored.
func GetPatterns(names []string) []Pattern {
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[name] = true
	}

	patterns := make([]Pattern, 0, len(names))
	for _, name := range patternOrder {
		if requested[name] {
			patterns = append(patterns, BuiltInPatterns[name])
		}
	}
	return patterns
}
