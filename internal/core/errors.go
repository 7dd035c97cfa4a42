package core

import (
	"fmt"
)

// ErrorKind identifies why the LLM classification path failed
type ErrorKind int

const (
	// KindTransport covers connection failures and deadline expiry
	KindTransport ErrorKind = iota + 1
	// KindStatus covers non-2xx responses from the text-generation endpoint
	KindStatus
	// KindParse covers replies that are not a JSON object
	KindParse
	// KindValidation covers replies with a missing or empty required field
	KindValidation
)

// String returns the kind name used in logs
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ClassificationError is returned by the LLM classification path.
// It never leaves ScamDetectionService.
type ClassificationError struct {
	Kind       ErrorKind
	StatusCode int
	Field      string
	Err        error
}

// NewTransportError wraps a network or deadline failure
func NewTransportError(err error) *ClassificationError {
	return &ClassificationError{Kind: KindTransport, Err: err}
}

// NewStatusError records a non-2xx response
func NewStatusError(code int, err error) *ClassificationError {
	return &ClassificationError{Kind: KindStatus, StatusCode: code, Err: err}
}

// NewParseError wraps a reply that could not be decoded
func NewParseError(err error) *ClassificationError {
	return &ClassificationError{Kind: KindParse, Err: err}
}

// NewValidationError records a missing, empty or mistyped reply field
func NewValidationError(field string) *ClassificationError {
	return &ClassificationError{Kind: KindValidation, Field: field}
}

func (e *ClassificationError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Err != nil {
			return fmt.Sprintf("llm endpoint returned status %d: %v", e.StatusCode, e.Err)
		}
		return fmt.Sprintf("llm endpoint returned status %d", e.StatusCode)
	case KindValidation:
		return fmt.Sprintf("llm reply field %q is missing or empty", e.Field)
	default:
		if e.Err != nil {
			return fmt.Sprintf("llm %s error: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("llm %s error", e.Kind)
	}
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
