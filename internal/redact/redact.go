// Package redact strips sensitive substrings from raw log text before it
// is hashed, cached, or sent to an external classifier.
//
// Each sensitive-data category is replaced with a fixed placeholder token
// distinct to that category ([IPV4], [EMAIL], [SECRET], ...). The fixed
// policy keeps fingerprints stable across processes: the same input always
// redacts to the same output, and redacting already-redacted text is a
// no-op.
package redact

// Redactor applies an ordered family of replacement rules to log text.
// The zero value is not usable; construct with New.
type Redactor struct {
	enabled  bool
	patterns []Pattern
}

// New creates a Redactor with the named patterns. If patternNames is empty
// or matches nothing, the full default set is used. If enabled is false,
// Redact returns text unchanged.
func New(enabled bool, patternNames []string) *Redactor {
	patterns := GetPatterns(patternNames)
	if len(patterns) == 0 {
		patterns = GetPatterns(DefaultPatterns())
	}

	return &Redactor{
		enabled:  enabled,
		patterns: patterns,
	}
}

// Redact replaces all non-overlapping matches of each pattern, in the
// fixed pattern order, with the pattern's placeholder. It never fails:
// unmatched content is left untouched, and empty input yields empty output.
func (r *Redactor) Redact(text string) string {
	if !r.enabled || len(r.patterns) == 0 {
		return text
	}

	result := text
	for _, pattern := range r.patterns {
		result = pattern.Regex.ReplaceAllLiteralString(result, pattern.Placeholder)
	}
	return result
}

// RedactAndCount redacts text and returns the number of replacements made.
func (r *Redactor) RedactAndCount(text string) (string, int) {
	if !r.enabled || len(r.patterns) == 0 {
		return text, 0
	}

	count := 0
	result := text
	for _, pattern := range r.patterns {
		matches := pattern.Regex.FindAllStringIndex(result, -1)
		count += len(matches)
		result = pattern.Regex.ReplaceAllLiteralString(result, pattern.Placeholder)
	}
	return result, count
}

// IsSensitive reports whether text contains any sensitive pattern without
// performing redaction.
func (r *Redactor) IsSensitive(text string) bool {
	if !r.enabled || len(r.patterns) == 0 {
		return false
	}

	for _, pattern := range r.patterns {
		if pattern.Regex.MatchString(text) {
			return true
		}
	}
	return false
}

// IsEnabled returns whether redaction is enabled.
func (r *Redactor) IsEnabled() bool {
	return r.enabled
}
