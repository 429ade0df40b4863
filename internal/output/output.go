// Package output renders analysis responses in text, JSON, and table
// formats for the CLI layer.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"logtriage/internal/pipeline"
	"logtriage/internal/rules"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
	color  ColorMode
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format, color: ColorAuto}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteResponse renders a full analysis response in the configured format.
func (wr *Writer) WriteResponse(resp *pipeline.Response) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(resp)
	case FormatTable:
		return wr.writeResponseTable(resp)
	default:
		return wr.writeResponseText(resp)
	}
}

func (wr *Writer) writeResponseText(resp *pipeline.Response) error {
	if resp.Error != nil {
		fmt.Fprintf(wr.w, "Analysis failed: %s\n", resp.Error.Message)
		return nil
	}

	a := resp.Analysis
	colorize := shouldColorize(wr.color, wr.w)

	fmt.Fprintf(wr.w, "=== Incident Analysis ===\n\n")
	fmt.Fprintf(wr.w, "Issue:      %s\n", a.IssueType)
	fmt.Fprintf(wr.w, "Severity:   %s\n", colorizeSeverity(a.Severity, colorize))
	fmt.Fprintf(wr.w, "Category:   %s\n", a.Category)
	fmt.Fprintf(wr.w, "Confidence: %d%%\n\n", a.Confidence)
	fmt.Fprintf(wr.w, "Root cause:\n  %s\n\n", a.RootCause)

	fmt.Fprintln(wr.w, "Suggested fix:")
	for i, step := range a.SuggestedFix {
		fmt.Fprintf(wr.w, "  %d. %s\n", i+1, step)
	}

	if len(a.RelatedLogs) > 0 {
		fmt.Fprintf(wr.w, "\nRelated log signatures: %s\n", strings.Join(a.RelatedLogs, ", "))
	}

	fmt.Fprintln(wr.w)
	if resp.Metadata.CacheHit {
		fmt.Fprintln(wr.w, "(served from cache)")
	}
	if resp.Metadata.Fallback {
		fmt.Fprintf(wr.w, "(degraded: AI classifier failed [%s], rule-based analysis shown)\n", resp.Metadata.FallbackReason)
	}
	fmt.Fprintf(wr.w, "model=%s hash=%s took=%dms\n",
		resp.Metadata.Model, shortHash(a.LogHash), a.ProcessingTimeMs)

	return nil
}

func (wr *Writer) writeResponseTable(resp *pipeline.Response) error {
	if resp.Error != nil {
		fmt.Fprintf(wr.w, "ERROR\t%s\t%s\n", resp.Error.Code, resp.Error.Message)
		return nil
	}

	a := resp.Analysis
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	fmt.Fprintf(tw, "issue\t%s\n", a.IssueType)
	fmt.Fprintf(tw, "severity\t%s\n", a.Severity)
	fmt.Fprintf(tw, "category\t%s\n", a.Category)
	fmt.Fprintf(tw, "confidence\t%d\n", a.Confidence)
	fmt.Fprintf(tw, "root cause\t%s\n", a.RootCause)
	for i, step := range a.SuggestedFix {
		fmt.Fprintf(tw, "fix %d\t%s\n", i+1, step)
	}
	fmt.Fprintf(tw, "cache hit\t%v\n", resp.Metadata.CacheHit)
	fmt.Fprintf(tw, "fallback\t%v\n", resp.Metadata.Fallback)
	fmt.Fprintf(tw, "model\t%s\n", resp.Metadata.Model)
	fmt.Fprintf(tw, "hash\t%s\n", shortHash(a.LogHash))
	return tw.Flush()
}

// WriteRules renders the rule table in priority order.
func (wr *Writer) WriteRules(ruleList []rules.Rule) error {
	if wr.format == FormatJSON {
		type ruleRow struct {
			Priority  int    `json:"priority"`
			Name      string `json:"name"`
			IssueType string `json:"issue_type"`
			Severity  string `json:"severity"`
			Category  string `json:"category"`
		}
		rows := make([]ruleRow, 0, len(ruleList))
		for i, r := range ruleList {
			rows = append(rows, ruleRow{
				Priority:  i + 1,
				Name:      r.Name,
				IssueType: r.Template.IssueType,
				Severity:  r.Template.Severity.String(),
				Category:  r.Template.Category,
			})
		}
		return wr.WriteJSON(rows)
	}

	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRIORITY\tNAME\tSEVERITY\tCATEGORY\tISSUE")
	fmt.Fprintln(tw, "--------\t----\t--------\t--------\t-----")
	for i, r := range ruleList {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1, r.Name, r.Template.Severity, r.Template.Category, r.Template.IssueType)
	}
	return tw.Flush()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
