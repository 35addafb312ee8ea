package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport signals a failed request to the remote collection (network or non-2xx status).
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse signals a response that lacks the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidSelection signals an invalid filter selection or sort key.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidExpression signals an expression that cannot be decoded or evaluated.
	ErrInvalidExpression = errors.New("invalid filter expression")
)

// TransportError wraps ErrTransport with the HTTP status (0 for network failures).
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s: status %d", e.Op, ErrTransport.Error(), e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, ErrTransport.Error(), e.Err)
	}
	return e.Op + ": " + ErrTransport.Error()
}

// Unwrap makes errors.Is(err, ErrTransport) hold and exposes the cause.
func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// NewTransportError creates a transport error for an operation.
func NewTransportError(op string, status int, cause error) error {
	return &TransportError{Op: op, StatusCode: status, Err: cause}
}
