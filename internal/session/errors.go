package session

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Client.Send. Callers branch on these with
// errors.Is / errors.As to decide what to show the user.
var (
	// ErrInvalidRequest means the request could not be built: empty
	// message, unknown personality or squad, or bad settings. Nothing was
	// sent and no local state changed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthenticated means no usable credentials exist: tokens are
	// missing, the refresh token is expired, or a refresh-and-retry cycle
	// still came back unauthorized. The user has to log in again.
	ErrUnauthenticated = errors.New("not authenticated")
)

// RateLimitError reports that a send was rejected by rate limiting.
// Server is false when the local fixed-window limiter rejected the send
// before anything left the process, true when the backend returned 429.
type RateLimitError struct {
	Server bool
}

func (e *RateLimitError) Error() string {
	if e.Server {
		return "rate limited by server"
	}
	return "rate limited locally"
}

// ServerError reports a 5xx from the backend or model API.
type ServerError struct {
	Code int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d)", e.Code)
}

// TransportError reports that the request never produced an HTTP
// response: connection refused, DNS failure, timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a 2xx response whose body could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
