// Package middleware provides the Gin middleware stack: panic recovery,
// request correlation, drain gating, body-size limiting, bearer-token
// authentication, and request logging.
package middleware

// RequestIDKey is the Gin context key under which the request correlation ID
// is stored. The same value is echoed in the X-Request-Id response header.
const RequestIDKey = "request_id"

// HeaderRequestID is the correlation ID header name.
const HeaderRequestID = "X-Request-Id"

// DrainState reports whether the process is draining. The server lifecycle
// satisfies it; tests substitute their own.
type DrainState interface {
	IsDraining() bool
}
