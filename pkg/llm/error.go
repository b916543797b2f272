package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/datapilotco/datapilot/pkg/utils"
)

// ErrorKind classifies a backend failure. Callers switch on the kind rather
// than on provider-specific status codes or error strings.
type ErrorKind string

const (
	// KindAuth means the backend rejected our credentials.
	KindAuth ErrorKind = "auth"

	// KindTimeout means the call exceeded its deadline or was cancelled.
	KindTimeout ErrorKind = "timeout"

	// KindUnavailable means the backend could not be reached or returned a
	// server-side failure.
	KindUnavailable ErrorKind = "unavailable"

	// KindMalformed means the backend answered but the payload could not be
	// interpreted.
	KindMalformed ErrorKind = "malformed"
)

// Error is the single failure type returned by every Client implementation.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with provider and kind metadata.
func NewError(provider string, kind ErrorKind, err error) *Error {
	return &Error{Provider: provider, Kind: kind, Err: err}
}

// WrapTransportError classifies a transport-level failure from the HTTP
// client: deadline and cancellation become KindTimeout, everything else
// KindUnavailable.
func WrapTransportError(provider string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewError(provider, KindTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewError(provider, KindTimeout, err)
	}
	return NewError(provider, KindUnavailable, err)
}

// ErrorFromStatus classifies a non-2xx HTTP response from a backend.
func ErrorFromStatus(provider string, status int, body []byte) *Error {
	err := fmt.Errorf("status %d: %s", status, utils.Truncate(string(body), 256))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewError(provider, KindAuth, err)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return NewError(provider, KindTimeout, err)
	case status >= 500 || status == http.StatusTooManyRequests:
		return NewError(provider, KindUnavailable, err)
	default:
		return NewError(provider, KindMalformed, err)
	}
}

// KindOf returns the ErrorKind of err when it is (or wraps) an *Error,
// and false otherwise.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
