package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"syscall"

	gomail "github.com/wneessen/go-mail"
)

// Code classifies mail delivery failures into a closed set.
type Code int

const (
	// CodeNotInitialized indicates Send was called before the client was built.
	CodeNotInitialized Code = iota
	// CodeConnection indicates the relay refused or dropped the connection.
	CodeConnection
	// CodeAuth indicates the relay rejected the credentials.
	CodeAuth
	// CodeTimeout indicates the send exceeded its deadline.
	CodeTimeout
	// CodeSend indicates any other transport error during delivery.
	CodeSend
	// CodeUnknown indicates a failure outside the transport's error surface.
	CodeUnknown
)

// String returns the event code emitted to the side-channel stream.
func (c Code) String() string {
	switch c {
	case CodeNotInitialized:
		return "NOT_INITIALIZED"
	case CodeConnection:
		return "SMTP_CONNECTION_FAILED"
	case CodeAuth:
		return "AUTH_FAILED"
	case CodeTimeout:
		return "TIMEOUT"
	case CodeSend:
		return "SEND_FAILED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is a classified mail failure. Exactly one is produced per failed
// send; the client never retries.
type Error struct {
	// Code classifies the failure.
	Code Code
	// Message describes the failure.
	Message string
	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("mail: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a raw transport error into a classified Error. Structured
// error types are inspected first; matching on SMTP reply text is kept only
// as a fallback for relays whose errors surface as bare strings.
func Classify(err error) *Error {
	if isTimeout(err) {
		return &Error{Code: CodeTimeout, Message: "SMTP request timed out", Err: err}
	}
	if isConnectionRefused(err) {
		return &Error{Code: CodeConnection, Message: "failed to connect to SMTP server", Err: err}
	}
	if isAuthRejection(err) {
		return &Error{Code: CodeAuth, Message: "SMTP authentication failed", Err: err}
	}

	var sendErr *gomail.SendError
	if errors.As(err, &sendErr) {
		return &Error{Code: CodeSend, Message: "failed to send email", Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Code: CodeSend, Message: "failed to send email", Err: err}
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return &Error{Code: CodeSend, Message: "failed to send email", Err: err}
	}

	return &Error{Code: CodeUnknown, Message: err.Error(), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	// Fallback for transports that flatten the dial error into text.
	return strings.Contains(err.Error(), "connection refused")
}

func isAuthRejection(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return true
		}
	}
	// Documented fallback: common relay auth-reject reply texts.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid login") ||
		strings.Contains(msg, "authentication failed") ||
		strings.Contains(msg, "username and password not accepted")
}

// IsTimeout checks if an error is a classified timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeTimeout
}

// IsConnection checks if an error is a classified connection failure.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeConnection
}

// IsAuth checks if an error is a classified authentication failure.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeAuth
}
