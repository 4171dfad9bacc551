package http

import (
	"errors"
	"fmt"
)

// ErrTransportUnavailable is matched (via errors.Is) by every
// TransportUnavailableError.
var ErrTransportUnavailable = errors.New("transport unavailable")

// InvalidURLError is returned when a request is created for a URL that
// does not look like an http(s) URL.
type InvalidURLError struct {
	URL string
}

// Error returns the error message
func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q", e.URL)
}

// InvalidPatternError is returned by the extraction helpers when a
// pattern cannot be compiled.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

// Error returns the error message
func (e *InvalidPatternError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid match pattern %q", e.Pattern)
	}
	return fmt.Sprintf("invalid match pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying compile error
func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// TransportUnavailableError is returned before any I/O when the selected
// transport is missing or cannot serve the request.
type TransportUnavailableError struct {
	Kind   TransportKind
	Reason string
}

// Error returns the error message
func (e *TransportUnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s transport unavailable", e.Kind)
	}
	return fmt.Sprintf("%s transport unavailable: %s", e.Kind, e.Reason)
}

// Is reports whether target is ErrTransportUnavailable
func (e *TransportUnavailableError) Is(target error) bool {
	return target == ErrTransportUnavailable
}

// UnsupportedMethodError is returned for methods other than GET, HEAD
// and POST.
type UnsupportedMethodError struct {
	Method string
}

// Error returns the error message
func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported method %q", e.Method)
}
