package fetch

import (
	"errors"
	"fmt"
)

// ErrorType classifies fetch failures for type switches at call sites.
type ErrorType int

const (
	ErrorTypeNetwork ErrorType = iota
	ErrorTypeBadStatus
	ErrorTypeInvalidPayload
	ErrorTypeUnknownResource
	ErrorTypeAllSourcesExhausted
	ErrorTypeAllResourcesFailed
	ErrorTypeUnknown
)

// FetchError represents a fetch-layer error with type information.
type FetchError struct {
	Type     ErrorType
	Resource string
	Message  string
	Cause    error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// TypeOf returns the classification of err, or ErrorTypeUnknown for foreign
// errors.
func TypeOf(err error) ErrorType {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Type
	}
	return ErrorTypeUnknown
}

// IsAllSourcesExhausted reports whether err means primary, fallback and cache
// all came up empty for a resource.
func IsAllSourcesExhausted(err error) bool {
	return TypeOf(err) == ErrorTypeAllSourcesExhausted
}
