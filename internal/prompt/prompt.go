// Package prompt holds the fixed instruction templates sent to the
// external classifier. The templates request exactly the incident schema
// the pipeline validates against; keeping them here means the adapter and
// its tests share one source of truth for the contract.
package prompt

import (
	"fmt"
	"strings"
)

// IncidentSystem instructs the model to produce a single JSON object
// matching the incident schema.
//
// Rule 1 is routinely violated by smaller models, which is why the
// adapter still extracts the first balanced JSON object from prose.
const IncidentSystem = `You are an expert log analysis assistant that produces machine-readable incident summaries.

Your analysis must be returned as a single valid JSON object with the following schema:

{
  "issue_type": "string — short label for the problem",
  "root_cause": "string — evidence-based explanation of why it happened",
  "suggested_fix": ["string — ordered remediation steps", ...],
  "severity": "string — one of: Low, Medium, High, Critical",
  "category": "string — one of: network, database, application, security, performance, authentication, authorization, configuration, resource, runtime, informational, infrastructure, unknown",
  "confidence": 0,
  "related_logs": ["string — log signature keywords that support the conclusion", ...]
}

Rules:
1. Output ONLY the JSON object — no markdown fences, no prose before or after
2. confidence is an integer from 0 to 100
3. suggested_fix must contain at least one step
4. Never invent log entries not present in the provided data
5. Sensitive values in the input have been replaced with placeholder tokens like [IPV4]; treat them as opaque`

// BuildIncidentUser wraps the redacted log excerpt for the user message.
func BuildIncidentUser(redactedLog string) string {
	var b strings.Builder
	b.WriteString("Analyze the following log excerpt and summarize the single most significant incident it shows.\n\n")
	fmt.Fprintf(&b, "--- LOG EXCERPT (%d bytes, sensitive values redacted) ---\n", len(redactedLog))
	b.WriteString(redactedLog)
	if !strings.HasSuffix(redactedLog, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("--- END LOG EXCERPT ---\n\nRespond with the JSON object only.")
	return b.String()
}
