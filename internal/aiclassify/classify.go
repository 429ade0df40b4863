// Package aiclassify adapts an external structured-output model into the
// incident classification contract.
//
// The adapter sends redacted log text with a fixed instruction template,
// extracts the first balanced JSON object from the response, validates it
// against the incident schema, and reports transport, parse, and schema
// failures distinctly. The orchestrator only ever sees a record or a
// Failure, never raw model output.
package aiclassify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"logtriage/internal/config"
	"logtriage/internal/incident"
	"logtriage/internal/llm"
	"logtriage/internal/prompt"
)

// DefaultTimeout bounds a single external classification call.
const DefaultTimeout = 30 * time.Second

// recordSchema is the JSON Schema the model's response must satisfy.
// It mirrors the schema stated in the instruction template.
const recordSchema = `{
  "type": "object",
  "required": ["issue_type", "root_cause", "suggested_fix", "severity", "category", "confidence"],
  "properties": {
    "issue_type":    {"type": "string", "minLength": 1},
    "root_cause":    {"type": "string", "minLength": 1},
    "suggested_fix": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "severity":      {"type": "string"},
    "category":      {"type": "string"},
    "confidence":    {"type": "number"},
    "related_logs":  {"type": "array", "items": {"type": "string"}}
  }
}`

// aiRecord is the wire shape of a model response. Confidence is a number
// because models routinely emit 85.0 for an integer field.
type aiRecord struct {
	IssueType    string   `json:"issue_type"`
	RootCause    string   `json:"root_cause"`
	SuggestedFix []string `json:"suggested_fix"`
	Severity     string   `json:"severity"`
	Category     string   `json:"category"`
	Confidence   float64  `json:"confidence"`
	RelatedLogs  []string `json:"related_logs"`
}

// Classifier sends redacted log text to an external model and validates
// the structured response. Safe for concurrent use.
type Classifier struct {
	provider llm.Provider
	schema   *gojsonschema.Schema
	model    string
	temp     float32
	maxTok   int
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a Classifier around the given provider using the LLM
// settings from cfg.
func New(provider llm.Provider, cfg *config.Config, logger *slog.Logger) (*Classifier, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
	if err != nil {
		return nil, err
	}

	timeout := cfg.LLM.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Classifier{
		provider: provider,
		schema:   schema,
		model:    llm.DefaultModel(cfg),
		temp:     cfg.LLM.Temperature,
		maxTok:   cfg.LLM.MaxTokens,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Model returns the configured model name, for response metadata.
func (c *Classifier) Model() string {
	return c.model
}

// Classify sends the redacted text to the external model and returns the
// validated incident fields. On any failure it returns a *Failure; the
// caller decides the fallback.
//
// The call is bounded by the configured timeout so a hung provider can
// never stall the request.
func (c *Classifier) Classify(ctx context.Context, redactedText string) (incident.Record, *Failure) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llm.Message{
		{Role: "system", Content: prompt.IncidentSystem},
		{Role: "user", Content: prompt.BuildIncidentUser(redactedText)},
	}

	resp, err := c.provider.Chat(ctx, messages, &llm.ChatOptions{
		Model:       c.model,
		Temperature: c.temp,
		MaxTokens:   c.maxTok,
	})
	if err != nil {
		c.logger.Warn("external classifier unreachable", "error", err)
		return incident.Record{}, &Failure{Kind: TransportFailure, Err: err}
	}

	return c.parseResponse(resp.Content)
}

// parseResponse extracts, parses, and validates the model's raw output.
func (c *Classifier) parseResponse(raw string) (incident.Record, *Failure) {
	jsonText, ok := ExtractJSONObject(raw)
	if !ok {
		c.logger.Warn("external classifier returned no JSON object", "response_bytes", len(raw))
		return incident.Record{}, &Failure{Kind: InvalidResponse}
	}

	result, err := c.schema.Validate(gojsonschema.NewStringLoader(jsonText))
	if err != nil {
		// Validate errors here mean the candidate was not valid JSON.
		return incident.Record{}, &Failure{Kind: InvalidResponse, Err: err}
	}

	if !result.Valid() {
		missing := missingFields(result)
		c.logger.Warn("external classifier response violated schema", "missing", missing)
		return incident.Record{}, &Failure{Kind: SchemaViolation, Missing: missing}
	}

	var rec aiRecord
	if err := json.Unmarshal([]byte(jsonText), &rec); err != nil {
		return incident.Record{}, &Failure{Kind: InvalidResponse, Err: err}
	}

	if rec.RelatedLogs == nil {
		rec.RelatedLogs = []string{}
	}

	return incident.Record{
		IssueType:    rec.IssueType,
		RootCause:    rec.RootCause,
		SuggestedFix: rec.SuggestedFix,
		Severity:     incident.ParseSeverity(rec.Severity),
		Category:     incident.NormalizeCategory(rec.Category),
		Confidence:   incident.ClampConfidence(int(rec.Confidence)),
		RelatedLogs:  rec.RelatedLogs,
	}, nil
}

// missingFields pulls the required-property names out of a failed
// validation result.
func missingFields(result *gojsonschema.Result) []string {
	var missing []string
	for _, desc := range result.Errors() {
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				missing = append(missing, prop)
			}
		}
	}
	return missing
}
