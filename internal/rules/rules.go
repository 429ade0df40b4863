// Package rules implements a deterministic, ordered pattern-matching
// classifier that maps known log signatures to incident records.
//
// Rules are evaluated top to bottom and the first match wins, so the
// order of the built-in table encodes priority. The classifier never
// fails: if no signature matches it degrades to a generic-error record,
// and if nothing matches at all it reports that no critical issues were
// detected. That makes it the safety net when the AI classifier is
// unavailable or returns invalid output.
package rules

import (
	"regexp"
	"strings"

	"logtriage/internal/incident"
)

// Template is the fixed incident output paired with a rule. The pipeline
// fills in hash and timing fields after classification.
type Template struct {
	IssueType    string
	RootCause    string
	SuggestedFix []string
	Severity     incident.Severity
	Category     string
	Confidence   int
	RelatedLogs  []string
}

// Rule pairs a text-matching predicate with an output template.
//
// A rule matches when every AllKeywords entry is present, at least one
// AnyKeywords entry is present (if any are given), and Pattern matches
// (if given). Keyword comparison is case-insensitive; rules must key on
// structural tokens (ECONNREFUSED, "out of memory") that survive
// redaction, never on values the redactor replaces.
type Rule struct {
	Name        string
	AllKeywords []string
	AnyKeywords []string
	Pattern     *regexp.Regexp
	Template    Template
}

// Matches reports whether the rule applies to the given text.
// lower must be the lowercased form of the text under classification.
func (r *Rule) Matches(lower string) bool {
	for _, kw := range r.AllKeywords {
		if !strings.Contains(lower, kw) {
			return false
		}
	}

	if len(r.AnyKeywords) > 0 {
		found := false
		for _, kw := range r.AnyKeywords {
			if strings.Contains(lower, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if r.Pattern != nil && !r.Pattern.MatchString(lower) {
		return false
	}

	return true
}

// Classifier evaluates an ordered rule list against log text.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier with the built-in signature rules.
func New() *Classifier {
	return &Classifier{rules: BuiltIn()}
}

// NewWithRules creates a Classifier with a custom rule list, evaluated
// in the given order ahead of the generic fallbacks.
func NewWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Rules returns the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify maps log text to an incident record using first-match-wins
// evaluation. It always returns a fully-populated record: an unmatched
// text containing an error keyword yields a low-confidence generic
// record, and anything else yields an informational "no critical issues
// detected" record.
func (c *Classifier) Classify(text string) incident.Record {
	lower := strings.ToLower(text)

	for i := range c.rules {
		if c.rules[i].Matches(lower) {
			return recordFromTemplate(c.rules[i].Template)
		}
	}

	if genericErrorRule.Matches(lower) {
		return recordFromTemplate(genericErrorRule.Template)
	}

	return recordFromTemplate(noIssueTemplate)
}

// MatchName returns the name of the first matching rule, or empty when
// only the fallbacks would apply. Used by the watch command to annotate
// live matches.
func (c *Classifier) MatchName(text string) string {
	lower := strings.ToLower(text)
	for i := range c.rules {
		if c.rules[i].Matches(lower) {
			return c.rules[i].Name
		}
	}
	return ""
}

func recordFromTemplate(t Template) incident.Record {
	fix := make([]string, len(t.SuggestedFix))
	copy(fix, t.SuggestedFix)
	related := make([]string, len(t.RelatedLogs))
	copy(related, t.RelatedLogs)

	return incident.Record{
		IssueType:    t.IssueType,
		RootCause:    t.RootCause,
		SuggestedFix: fix,
		Severity:     t.Severity,
		Category:     incident.NormalizeCategory(t.Category),
		Confidence:   incident.ClampConfidence(t.Confidence),
		RelatedLogs:  related,
	}
}
