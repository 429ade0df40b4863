package aiclassify

import (
	"fmt"
	"strings"
)

// FailureKind distinguishes why the external classifier produced no
// usable record. The pipeline absorbs all of these and falls back to the
// rule classifier; it never propagates them to the transport layer.
type FailureKind string

const (
	// TransportFailure: the external service was unreachable or timed out.
	TransportFailure FailureKind = "transport_failure"

	// InvalidResponse: the response contained no parsable JSON object.
	InvalidResponse FailureKind = "invalid_response"

	// SchemaViolation: the JSON parsed but did not satisfy the incident
	// schema (typically missing required fields).
	SchemaViolation FailureKind = "schema_violation"
)

// Failure describes a classification attempt that produced no record.
type Failure struct {
	Kind    FailureKind
	Missing []string // populated for SchemaViolation
	Err     error    // underlying cause, may be nil
}

// Error implements the error interface.
func (f *Failure) Error() string {
	switch {
	case f.Kind == SchemaViolation && len(f.Missing) > 0:
		return fmt.Sprintf("ai classification failed (%s): missing fields %s", f.Kind, strings.Join(f.Missing, ", "))
	case f.Err != nil:
		return fmt.Sprintf("ai classification failed (%s): %v", f.Kind, f.Err)
	default:
		return fmt.Sprintf("ai classification failed (%s)", f.Kind)
	}
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (f *Failure) Unwrap() error {
	return f.Err
}
