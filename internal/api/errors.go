package api

import (
	"errors"
	"fmt"
)

// API boundary errors.
//
// Design decision: malformed envelopes get their own sentinel instead of
// surfacing raw decode errors, so callers can tell a broken contract apart
// from a transport failure with errors.Is.
var (
	// ErrMalformedResponse is returned when a response body does not match
	// the envelope expected for the endpoint.
	ErrMalformedResponse = errors.New("malformed response envelope")

	// ErrResponseTooLarge is returned when a response body is larger than
	// the client's body-size limit.
	ErrResponseTooLarge = errors.New("response body too large")

	// ErrUnexpectedStatus is matched by every *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrMissingToken is returned when an authenticated call is made
	// without an API token.
	ErrMissingToken = errors.New("an API token is required for this action")

	// ErrMissingProject is returned when a project action has no target.
	ErrMissingProject = errors.New("no target project")
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d (%s %s)", e.StatusCode, e.Method, e.URL)
}

// Is makes every StatusError match ErrUnexpectedStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// malformed wraps ErrMalformedResponse with the missing part of the envelope.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
