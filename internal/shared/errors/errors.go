package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Run errors
	ErrRunNotFound  = errors.New("audit run not found")
	ErrInvalidRunID = errors.New("invalid run ID")

	// Target errors
	ErrEmptyTargetURL = errors.New("target URL cannot be empty")
	ErrNoTargets      = errors.New("no audit targets provided")

	// Rendering errors
	ErrUnsupportedFormat = errors.New("unsupported report format")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)

// FetchError reports a failed page retrieval: a network failure, a timeout,
// or a non-2xx status. It aborts only the audit of the URL it names.
type FetchError struct {
	URL        string
	StatusCode int // zero when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a body that could not be turned into a document tree,
// including an empty response body.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports a broken checklist definition: a weight table that does
// not sum to 1.0, a check referencing an unknown category, or a duplicate
// check name. It is fatal at startup and never recovered per request.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("audit configuration error: %s", e.Reason)
}

// CheckError reports a registered check that could not evaluate at all given
// otherwise valid page data. It aborts the single audit and names the check,
// since silently dropping one would understate the checklist.
type CheckError struct {
	Check string
	URL   string
	Err   error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check %q failed to evaluate for %s: %v", e.Check, e.URL, e.Err)
}

func (e *CheckError) Unwrap() error { return e.Err }
