package ai

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// ErrorCode identifies a class of AI text service failure.
type ErrorCode string

const (
	ErrNotConfigured     ErrorCode = "AI_NOT_CONFIGURED"
	ErrUnavailable       ErrorCode = "AI_UNAVAILABLE"
	ErrRateLimited       ErrorCode = "AI_RATE_LIMITED"
	ErrRejected          ErrorCode = "AI_REQUEST_REJECTED"
	ErrEmptyResponse     ErrorCode = "AI_EMPTY_RESPONSE"
	ErrMalformedResponse ErrorCode = "AI_MALFORMED_RESPONSE"
)

// Error is a structured error for AI text service failures.
type Error struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// classify turns a genai transport error into an *Error. Rate limits and
// server-side failures are retryable; other API rejections are not.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &Error{Code: ErrRateLimited, Message: "rate limited", Retryable: true, Cause: err}
		case apiErr.Code >= http.StatusInternalServerError:
			return &Error{Code: ErrUnavailable, Message: "service error", Retryable: true, Cause: err}
		default:
			return &Error{Code: ErrRejected, Message: "request rejected", Retryable: false, Cause: err}
		}
	}
	return &Error{Code: ErrUnavailable, Message: "generate content failed", Retryable: true, Cause: err}
}
