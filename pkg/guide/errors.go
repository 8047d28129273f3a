package guide

import (
	"errors"
	"fmt"
)

// Code classifies a failure so the HTTP layer can map it to a status and a
// stable, user-safe message.
type Code string

const (
	CodeValidation  Code = "VALIDATION"
	CodeNotFound    Code = "NOT_FOUND"
	CodeRateLimited Code = "RATE_LIMITED"
	CodeUnavailable Code = "UNAVAILABLE"
	CodeUpstream    Code = "UPSTREAM"
	CodeGeneration  Code = "GENERATION_FAILED"
)

// Error carries a taxonomy code, a short machine-readable reason, and the
// underlying cause. Reasons are for logs; clients only ever see the mapped
// status message.
type Error struct {
	Code   Code
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("guide: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("guide: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code Code, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// CodeOf extracts the taxonomy code from err, if it carries one.
func CodeOf(err error) (Code, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code, true
	}
	return "", false
}
