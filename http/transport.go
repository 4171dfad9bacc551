package http

import (
	"context"
	"time"
)

// Request methods supported by Request.
const (
	MethodGet  = "GET"
	MethodHead = "HEAD"
	MethodPost = "POST"
)

// FormContentType is sent with POST bodies.
const FormContentType = "application/x-www-form-urlencoded"

// maxRedirects bounds redirect chains on both transports.
const maxRedirects = 20

// TransportKind names one of the interchangeable transports.
type TransportKind string

const (
	// TransportFetch is the simple blocking fetch built on net/http.
	TransportFetch TransportKind = "fetch"
	// TransportConn is the handle-based raw connection transport.
	TransportConn TransportKind = "conn"
)

// Call is everything a transport needs to perform one request.
type Call struct {
	Method string
	// URL already carries the query string for GET and HEAD.
	URL string
	// Form is the encoded POST body.
	Form            string
	FollowRedirects bool
	Timeout         time.Duration
	Referer         string
	UserAgent       string
}

// Transport performs the network I/O for a Call. Fetch never returns a Go
// error: failures are reported through TransportResult.Failed.
type Transport interface {
	Fetch(ctx context.Context, call *Call) *TransportResult
}
