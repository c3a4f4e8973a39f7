package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/sashabaranov/go-openai"
)

// Code classifies transcription failures into a closed set.
type Code int

const (
	// CodeTimeout indicates the provider call exceeded its deadline.
	CodeTimeout Code = iota
	// CodeRateLimit indicates the provider rejected the call with HTTP 429.
	CodeRateLimit
	// CodeAuth indicates the provider rejected the credentials (401/403).
	CodeAuth
	// CodeAPI indicates any other provider-reported error status.
	CodeAPI
	// CodeUnknown indicates a failure outside the provider's error surface.
	CodeUnknown
)

// String returns the event code emitted to the side-channel stream.
func (c Code) String() string {
	switch c {
	case CodeTimeout:
		return "TIMEOUT"
	case CodeRateLimit:
		return "RATE_LIMIT"
	case CodeAuth:
		return "AUTH_ERROR"
	case CodeAPI:
		return "API_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is a classified transcription failure. Exactly one is produced per
// failed call; the client never retries.
type Error struct {
	// Code classifies the failure.
	Code Code
	// Status is the provider HTTP status code (0 when not applicable).
	Status int
	// Message describes the failure.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("transcribe: %s (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("transcribe: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a raw provider error into a classified Error.
// Priority: timeout, rate limit, auth, provider status, unknown.
func Classify(err error) *Error {
	if isTimeout(err) {
		return &Error{Code: CodeTimeout, Message: "transcription request timed out", Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429:
			return &Error{Code: CodeRateLimit, Status: apiErr.HTTPStatusCode, Message: "provider rate limit exceeded", Err: err}
		case 401, 403:
			return &Error{Code: CodeAuth, Status: apiErr.HTTPStatusCode, Message: "provider authentication failed", Err: err}
		default:
			return &Error{
				Code:    CodeAPI,
				Status:  apiErr.HTTPStatusCode,
				Message: fmt.Sprintf("provider returned %d: %s", apiErr.HTTPStatusCode, apiErr.Message),
				Err:     err,
			}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			Code:    CodeAPI,
			Status:  reqErr.HTTPStatusCode,
			Message: fmt.Sprintf("provider request failed with %d", reqErr.HTTPStatusCode),
			Err:     err,
		}
	}

	return &Error{Code: CodeUnknown, Message: err.Error(), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTimeout checks if an error is a classified timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeTimeout
}

// IsRateLimit checks if an error is a classified rate-limit failure.
func IsRateLimit(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeRateLimit
}

// IsAuth checks if an error is a classified authentication failure.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeAuth
}
