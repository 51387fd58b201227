// Package assistant is the orchestration engine: it turns a free-text
// user message into an answer by assembling account/platform context,
// short-circuiting known queries through a deterministic fast path, and
// otherwise running a bounded function-calling loop against the
// completion service.
package assistant

import "errors"

// The engine boundary raises exactly two signals. Callers special-case
// these and nothing else.
var (
	// ErrRateLimit means the completion service throttled us. Surfaced
	// to the end user as "try again shortly", never retried internally.
	ErrRateLimit = errors.New("rate limited by completion service")

	// ErrServiceUnavailable covers upstream outages, missing
	// credentials, malformed upstream responses and iteration budget
	// exhaustion.
	ErrServiceUnavailable = errors.New("assistant service unavailable")
)

// errMaxIterations is the internal circuit breaker signal raised when
// the tool loop budget runs out without a plain-text reply. It is
// normalized to ErrServiceUnavailable at the boundary.
var errMaxIterations = errors.New("max tool iterations reached")
