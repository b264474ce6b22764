package requester

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRoute is returned when Call names an undeclared route.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrAmbiguousBodyMerge rejects an array payload on a route with a base body.
	ErrAmbiguousBodyMerge = errors.New("array payload cannot be merged with the route's base body")
	// ErrUnsupportedPayload rejects payload shapes the route cannot encode.
	ErrUnsupportedPayload = errors.New("unsupported payload")
	// ErrPayloadRejected wraps a route validator failure.
	ErrPayloadRejected = errors.New("payload rejected by route validator")
	// ErrCrossOrigin is the transport error raised for same-origin mode violations.
	ErrCrossOrigin = errors.New("cross-origin request blocked by same-origin mode")
)

// EncodingError is a configuration error found while shaping a request,
// before any network I/O.
type EncodingError struct {
	Route string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("route %q: %v", e.Route, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// TransportError is returned when the transport fails and the applicable
// error policy rethrows.
type TransportError struct {
	Route  string
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Route != "" {
		return fmt.Sprintf("%s %s (route %q): %v", e.Method, e.URL, e.Route, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TooManyRedirectsError is attached to the result of a redirect chain that
// exceeded the client's hop limit.
type TooManyRedirectsError struct {
	Limit int
	Last  string
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("Too many redirects (limit %d)", e.Limit)
}

// ResponseTooLargeError fails a hop whose body exceeds the client's limit.
type ResponseTooLargeError struct {
	Limit int64
	URL   string
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body from %s exceeds %d bytes", e.URL, e.Limit)
}
