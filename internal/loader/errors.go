package loader

import (
	"errors"
	"fmt"
)

// UnknownErrorMessage is recorded when a failure carries no message of its own.
const UnknownErrorMessage = "unknown error loading aggregated data"

// ErrSuperseded marks the result of a run that was overtaken by a newer one.
var ErrSuperseded = errors.New("load superseded by a newer run")

// ErrNullDocument is reported for a body that is the JSON literal null.
var ErrNullDocument = errors.New("document is null")

// LoadError names the document whose fetch, decode or validation aborted a run.
type LoadError struct {
	Document string
	Cause    error
}

func (e *LoadError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("failed to load %s", e.Document)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Document, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// DecodeError is returned when a body is not valid JSON.
type DecodeError struct {
	Document string
	Cause    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON in %s: %v", e.Document, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// messageOf extracts a human readable message from a run error.
func messageOf(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
