// Package errors provides custom error types for the tutor service client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError represents a failed exchange with the tutor service:
// network unreachable, timeout, or a non-2xx status.
type TransportError struct {
	StatusCode int // 0 when the request never completed
	Endpoint   string
	Message    string
	Err        error // underlying cause, may be nil
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("tutor service error [%d]: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("tutor service unreachable: %v", e.Err)
	}
	return fmt.Sprintf("tutor service unreachable: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is allows comparison with the ErrTransport sentinel
func (e *TransportError) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	_, ok := target.(*TransportError)
	return ok
}

// NewTransportError creates a TransportError for a completed request
// that came back with a failing status.
func NewTransportError(statusCode int, endpoint, message string) *TransportError {
	return &TransportError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewNetworkError creates a TransportError for a request that never
// completed (DNS failure, refused connection, timeout).
func NewNetworkError(endpoint string, err error) *TransportError {
	return &TransportError{
		Endpoint: endpoint,
		Err:      err,
	}
}

// MalformedResponseError represents a 2xx response whose body is missing
// the expected shape.
type MalformedResponseError struct {
	Message string
}

func (e *MalformedResponseError) Error() string {
	if e.Message == "" {
		return "malformed response from tutor service"
	}
	return fmt.Sprintf("malformed response from tutor service: %s", e.Message)
}

// Is allows comparison with the ErrMalformedResponse sentinel
func (e *MalformedResponseError) Is(target error) bool {
	if target == ErrMalformedResponse {
		return true
	}
	_, ok := target.(*MalformedResponseError)
	return ok
}

// NewMalformedResponseError creates a new MalformedResponseError
func NewMalformedResponseError(message string) *MalformedResponseError {
	return &MalformedResponseError{Message: message}
}

// IsTransportError reports whether err is a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsMalformedResponse reports whether err is a MalformedResponseError
func IsMalformedResponse(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}

// HTTPStatus extracts the HTTP status from a TransportError, or 0 when
// the error carries none.
func HTTPStatus(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
