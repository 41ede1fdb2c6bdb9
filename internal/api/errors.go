package api

import "fmt"

// StatusError is any non-2xx response from the backend. Body carries the
// parsed error payload when the backend sent one.
type StatusError struct {
	Code int
	Body *ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Body != nil && e.Body.Error != "" {
		return fmt.Sprintf("squad api: status %d: %s", e.Code, e.Body.Error)
	}
	return fmt.Sprintf("squad api: status %d", e.Code)
}

// Message returns the most specific human-readable detail available.
func (e *StatusError) Message() string {
	if e.Body == nil {
		return ""
	}
	if e.Body.Message != "" {
		return e.Body.Message
	}
	return e.Body.Error
}

// DecodeError is a 2xx response whose body did not match the contract.
// Surfaced, never masked: it indicates client/backend version drift.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "squad api: decode response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
