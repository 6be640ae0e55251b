package parser

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("empty completion from model")

// RateLimitError indicates a model provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. A non-positive retryAfterSecs means 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header holding either delta
// seconds or an HTTP date. Returns 0 when the value is unusable.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return secs
	}
	if at, err := time.Parse(time.RFC1123, val); err == nil {
		if d := time.Until(at); d > 0 {
			return int(d.Seconds())
		}
	}
	return 0
}

// Truncate shortens s for inclusion in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
