package http

import (
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx response
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 2xx body is not the JSON document the caller expected.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsTransportFailure reports whether err came from the wire rather than from request preparation.
func IsTransportFailure(err error) bool {
	var netErr *NetworkError
	var httpErr *HTTPError
	var decErr *DecodeError
	return errors.As(err, &netErr) || errors.As(err, &httpErr) || errors.As(err, &decErr)
}
