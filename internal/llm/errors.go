package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the unified error interface returned by provider adapters.
type Error interface {
	error
	Provider() string
	StatusCode() int
	Retryable() bool
}

type httpErrorBase struct {
	provider   string
	statusCode int
	message    string
	retryable  bool
}

func (e *httpErrorBase) Error() string {
	msg := strings.TrimSpace(e.message)
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("%s error (status=%d): %s", e.provider, e.statusCode, msg)
}
func (e *httpErrorBase) Provider() string { return e.provider }
func (e *httpErrorBase) StatusCode() int  { return e.statusCode }
func (e *httpErrorBase) Retryable() bool  { return e.retryable }

// InvalidRequestError marks a malformed invocation: the caller built a request
// the provider can never accept. It is the only fatal class.
type InvalidRequestError struct{ httpErrorBase }

type AuthenticationError struct{ httpErrorBase }
type AccessDeniedError struct{ httpErrorBase }
type NotFoundError struct{ httpErrorBase }
type RateLimitError struct{ httpErrorBase }
type QuotaExceededError struct{ httpErrorBase }
type ServerError struct{ httpErrorBase }
type UnknownHTTPError struct{ httpErrorBase }

// NewInvalidRequestError builds a fatal malformed-invocation error that did
// not originate from an HTTP response (e.g. request construction failed).
func NewInvalidRequestError(provider, message string) error {
	return &InvalidRequestError{httpErrorBase{provider: provider, message: message}}
}

// ErrorFromHTTPStatus maps a transport-level failure to a typed error.
func ErrorFromHTTPStatus(provider string, statusCode int, message string) error {
	base := httpErrorBase{
		provider:   strings.TrimSpace(provider),
		statusCode: statusCode,
		message:    message,
	}
	switch statusCode {
	case 400, 422:
		base.retryable = false
		return &InvalidRequestError{base}
	case 401:
		base.retryable = false
		return &AuthenticationError{base}
	case 403:
		base.retryable = false
		return &AccessDeniedError{base}
	case 404:
		base.retryable = false
		return &NotFoundError{base}
	case 429:
		base.retryable = true
		if strings.Contains(strings.ToLower(message), "quota") {
			return &QuotaExceededError{base}
		}
		return &RateLimitError{base}
	case 500, 502, 503, 504:
		base.retryable = true
		return &ServerError{base}
	default:
		base.retryable = true
		return &UnknownHTTPError{base}
	}
}

// Failure is the orchestration-level classification of an attempt error.
type Failure int

const (
	// FailureTransient retries the same model after a short fixed delay.
	FailureTransient Failure = iota
	// FailureRateLimited retries the same model after exponential backoff.
	FailureRateLimited
	// FailureModelUnavailable abandons the model and advances to the next candidate.
	FailureModelUnavailable
	// FailureFatal aborts the whole candidate loop.
	FailureFatal
)

func (f Failure) String() string {
	switch f {
	case FailureRateLimited:
		return "rate_limited"
	case FailureModelUnavailable:
		return "model_unavailable"
	case FailureFatal:
		return "fatal"
	default:
		return "transient"
	}
}

// Classify maps an attempt error to its orchestration failure class. Typed
// adapter errors decide directly; for everything else the lowered message is
// matched in priority order: unavailable markers first, then rate limits,
// then malformed-call markers. Anything unmatched is transient.
func Classify(err error) Failure {
	if err == nil {
		return FailureTransient
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return FailureModelUnavailable
	}
	var rateLimited *RateLimitError
	var quota *QuotaExceededError
	if errors.As(err, &rateLimited) || errors.As(err, &quota) {
		return FailureRateLimited
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"),
		strings.Contains(msg, "unsupported"),
		strings.Contains(msg, "404"):
		return FailureModelUnavailable
	case strings.Contains(msg, "rate"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "429"):
		return FailureRateLimited
	}

	var invalid *InvalidRequestError
	if errors.As(err, &invalid) {
		return FailureFatal
	}

	return FailureTransient
}
