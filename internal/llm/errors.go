package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRateLimit indicates the request was throttled, either by the provider
// (HTTP 429) or by the local rate limiter.
type ErrRateLimit struct {
	Provider string
	Err      error
}

func (e *ErrRateLimit) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: rate limited: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: rate limited", e.Provider)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable or
// short-circuited.
type ErrProviderUnavailable struct {
	Provider string
	Err      error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: provider unavailable: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: provider unavailable", e.Provider)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider answered with content that is
// empty, not JSON, or does not match the expected schema.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// classifyStatus maps an HTTP status from a provider API to a typed error
func classifyStatus(provider string, status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Provider: provider, Err: err}
	}
	return &ErrProviderUnavailable{Provider: provider, Err: err}
}

// IsRateLimit reports whether err is a rate limit error
func IsRateLimit(err error) bool {
	var rl *ErrRateLimit
	return errors.As(err, &rl)
}

// IsUnavailable reports whether err means the provider could not be reached
func IsUnavailable(err error) bool {
	var pu *ErrProviderUnavailable
	return errors.As(err, &pu)
}
