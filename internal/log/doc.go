// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// simprofile logs API requests in verbose mode. Those requests may carry an
// API token, a session cookie or custom headers from the .simprofile file,
// so every logger the CLI creates goes through a SecureHandler.
//
// # Security Features
//
// The SecureHandler sanitizes:
//   - attributes whose key names a credential (authorization, cookie, token, ...)
//   - values that look like bearer tokens, basic auth or JWTs
//   - credential query parameters inside URL values, keeping the rest of the URL
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("api request",
//	    "url", "https://websim.com/api/v1/users/alice/projects?token=abc", // token=***REDACTED***
//	    "cookie", "session=abc123", // ***REDACTED***
//	)
//	slog.SetDefault(logger)
package log
