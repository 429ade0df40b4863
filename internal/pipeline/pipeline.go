// Package pipeline composes redaction, fingerprinting, caching, and
// classification into one request/response contract:
//
//	redact → fingerprint → cache lookup → classify → validate → cache store
//
// The orchestrator is stateless across requests; the result cache is the
// only shared state, and all of its operations are idempotent at the key
// level.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"logtriage/internal/aiclassify"
	"logtriage/internal/cache"
	"logtriage/internal/config"
	"logtriage/internal/incident"
	"logtriage/internal/redact"
	"logtriage/internal/rules"
)

// RuleClassifierModel is reported as the model name when the rule
// classifier produced the analysis.
const RuleClassifierModel = "builtin-rules"

// Request is one analysis call. It has no identity beyond the call.
type Request struct {
	// Text is the raw operator-submitted log excerpt.
	Text string

	// Force bypasses the cache lookup but not the cache store.
	Force bool
}

// Metadata describes how a Response was produced.
type Metadata struct {
	LogSize         int    `json:"log_size"`
	RedactedLogSize int    `json:"redacted_log_size"`
	CacheHit        bool   `json:"cache_hit"`
	Model           string `json:"model,omitempty"`

	// Fallback is set when the AI path failed and the rule classifier
	// produced the analysis instead. It is distinct from the AI
	// reporting that no issue exists.
	Fallback       bool   `json:"fallback"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// Response is the full result of one analysis call. Either Analysis or
// Error is present, never neither.
type Response struct {
	Success  bool             `json:"success"`
	Analysis *incident.Record `json:"analysis,omitempty"`
	Metadata Metadata         `json:"metadata"`
	Error    *RequestError    `json:"error,omitempty"`
}

// Orchestrator runs the analysis pipeline. Construct with New; safe for
// concurrent use.
type Orchestrator struct {
	redactor *redact.Redactor
	store    cache.Store
	rules    *rules.Classifier
	ai       *aiclassify.Classifier
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Orchestrator. aiClassifier may be nil, in which case
// every request is classified by rules alone. store may be nil to
// disable caching entirely.
func New(cfg *config.Config, redactor *redact.Redactor, store cache.Store, ruleClassifier *rules.Classifier, aiClassifier *aiclassify.Classifier, logger *slog.Logger) *Orchestrator {
	maxBytes := cfg.MaxLogBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxLogBytes
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		redactor: redactor,
		store:    store,
		rules:    ruleClassifier,
		ai:       aiClassifier,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs the full pipeline for one log excerpt.
//
// Empty and oversized input are rejected before any hashing or
// classification work. Classifier failures are absorbed: the response is
// still successful, carrying a rule-based fallback record flagged in the
// metadata. Cache I/O failures are logged and otherwise invisible.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) *Response {
	size := int64(len(req.Text))

	if strings.TrimSpace(req.Text) == "" {
		return &Response{
			Success:  false,
			Metadata: Metadata{LogSize: int(size)},
			Error:    emptyInputError(),
		}
	}

	if size > o.maxBytes {
		return &Response{
			Success:  false,
			Metadata: Metadata{LogSize: int(size)},
			Error:    tooLargeError(size, o.maxBytes),
		}
	}

	start := o.now()
	redacted := o.redactor.Redact(req.Text)
	hash := cache.Fingerprint(redacted)

	meta := Metadata{
		LogSize:         int(size),
		RedactedLogSize: len(redacted),
	}

	if !req.Force && o.store != nil {
		if entry, ok := o.store.Get(hash); ok {
			o.logger.Debug("cache hit", "hash", hash)
			meta.CacheHit = true
			record := entry.Record
			return &Response{Success: true, Analysis: &record, Metadata: meta}
		}
	}

	record, fallback, reason := o.classify(ctx, redacted)
	meta.Fallback = fallback
	meta.FallbackReason = reason
	if fallback || o.ai == nil {
		meta.Model = RuleClassifierModel
	} else {
		meta.Model = o.ai.Model()
	}

	record.LogHash = hash
	record.AnalyzedAt = o.now()
	record.ProcessingTimeMs = o.now().Sub(start).Milliseconds()

	// Fallback records are not cached: a degraded answer should not
	// shadow a real classification for the next 24 hours.
	if o.store != nil && !fallback {
		if err := o.store.Put(hash, record); err != nil {
			o.logger.Warn("cache store failed", "hash", hash, "error", err)
		}
	}

	return &Response{Success: true, Analysis: &record, Metadata: meta}
}

// classify runs the AI classifier when configured and falls back to the
// rule classifier on any failure. The rule classifier never fails, so
// classify always returns a fully-populated record.
func (o *Orchestrator) classify(ctx context.Context, redacted string) (rec incident.Record, fallback bool, reason string) {
	if o.ai == nil {
		return o.rules.Classify(redacted), false, ""
	}

	rec, failure := o.ai.Classify(ctx, redacted)
	if failure == nil {
		return rec, false, ""
	}

	o.logger.Info("falling back to rule classifier", "kind", string(failure.Kind))
	return o.rules.Classify(redacted), true, string(failure.Kind)
}
