package pipeline

import "fmt"

// Code identifies a client-visible request rejection.
type Code string

const (
	// CodeEmptyInput: the submitted text was empty or whitespace-only.
	CodeEmptyInput Code = "empty_input"

	// CodeTooLarge: the submitted text exceeded the configured maximum.
	CodeTooLarge Code = "too_large"
)

// RequestError is a client error attached to a failed Response.
// External-classifier failures never appear here; those are absorbed
// into a fallback analysis.
type RequestError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func emptyInputError() *RequestError {
	return &RequestError{
		Code:    CodeEmptyInput,
		Message: "log text is empty or contains only whitespace",
	}
}

func tooLargeError(size, max int64) *RequestError {
	return &RequestError{
		Code:    CodeTooLarge,
		Message: fmt.Sprintf("log text is %d bytes, which exceeds the %d byte limit", size, max),
	}
}
