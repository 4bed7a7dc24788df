package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoUsername is returned when no profile username is given.
	ErrNoUsername = errors.New("no username specified: provide at least one username")

	// ErrInvalidBaseURL is returned when the API base URL is not an
	// absolute http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPageSize is returned when the page size is negative or
	// larger than the API allows. Use 0 for the API default.
	ErrInvalidPageSize = errors.New("invalid page size: must be between 0 and 100")

	// ErrInvalidStatsConcurrency is returned when the stats concurrency is
	// negative. Use 0 for unbounded fan-out.
	ErrInvalidStatsConcurrency = errors.New("invalid stats concurrency: must be non-negative")

	// ErrInvalidBatchConcurrency is returned when the number of profiles
	// loaded at once is not positive.
	ErrInvalidBatchConcurrency = errors.New("invalid batch concurrency: must be positive")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid format: must be text, markdown or json")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
