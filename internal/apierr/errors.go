// Package apierr holds the shared error sentinels and retry helper used by
// every outbound HTTP client in this repository (the generation client and
// the feed fetcher). Clients classify their provider-specific failures into
// these sentinels at the adapter boundary with
// fmt.Errorf("%s: %w", msg, sentinel); callers test with errors.Is.
package apierr

import "errors"

// Sentinel errors for remote-call failures.
var (
	// ErrRateLimit indicates the remote rate limit was hit (retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates an exhausted quota or balance (not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates the credentials were rejected.
	ErrAuthFailed = errors.New("authentication failed")
)
