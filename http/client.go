package http

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client holds the transports and request defaults shared by the
// Requests it creates. It holds no per-request state, so one Client may
// be used from several goroutines as long as each uses its own Request.
type Client struct {
	transports      map[TransportKind]Transport
	logger          logrus.FieldLogger
	timeoutSeconds  int
	followRedirects bool
	userAgent       string
	referer         string
	useConn         bool
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a Client with both transports registered.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithTimeoutSeconds(5),
//	    http.WithUserAgent("hitch/1.0"),
//	)
//	req, err := client.NewRequest("https://example.com/")
func NewClient(options ...ClientOption) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	client := &Client{
		transports: map[TransportKind]Transport{
			TransportFetch: NewFetchTransport(),
			TransportConn:  NewConnTransport(),
		},
		logger:          discard,
		timeoutSeconds:  DefaultTimeoutSeconds,
		followRedirects: true,
	}

	// Apply options
	for _, option := range options {
		option(client)
	}

	return client
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport registers t under kind. A nil t removes the transport, so
// requests selecting it fail with ErrTransportUnavailable.
func WithTransport(kind TransportKind, t Transport) ClientOption {
	return func(c *Client) {
		if t == nil {
			delete(c.transports, kind)
			return
		}
		c.transports[kind] = t
	}
}

// WithTimeoutSeconds sets the default request timeout.
func WithTimeoutSeconds(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithFollowRedirects sets the default redirect policy.
func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirects = follow
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithReferer sets the default Referer header.
func WithReferer(referer string) ClientOption {
	return func(c *Client) {
		c.referer = referer
	}
}

// WithConnTransport makes new Requests use the connection transport.
func WithConnTransport(useConn bool) ClientOption {
	return func(c *Client) {
		c.useConn = useConn
	}
}

// NewRequest validates rawURL and creates a Request carrying the client's
// defaults.
func (c *Client) NewRequest(rawURL string) (*Request, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	return &Request{
		client:          c,
		url:             rawURL,
		params:          newParams(),
		FollowRedirects: c.followRedirects,
		TimeoutSeconds:  c.timeoutSeconds,
		Referer:         c.referer,
		UserAgent:       c.userAgent,
		UseConn:         c.useConn,
	}, nil
}

// transport returns the transport registered for kind.
func (c *Client) transport(kind TransportKind) (Transport, error) {
	t, ok := c.transports[kind]
	if !ok {
		return nil, &TransportUnavailableError{Kind: kind, Reason: "not registered"}
	}
	return t, nil
}

// do runs one call through the selected transport and parses the result.
func (c *Client) do(ctx context.Context, kind TransportKind, call *Call) (*Response, error) {
	t, err := c.transport(kind)
	if err != nil {
		return nil, err
	}

	log := c.logger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     call.Method,
		"url":        call.URL,
		"transport":  string(kind),
	})
	log.Debug("sending request")

	resp := Parse(t.Fetch(ctx, call))

	fields := logrus.Fields{"elapsed": resp.ElapsedDuration().Round(time.Microsecond)}
	if code, ok := resp.StatusCode(); ok {
		fields["status"] = code
	}
	if resp.IsError() {
		log.WithFields(fields).WithField("error", resp.Error()).Warn("request failed")
	} else {
		log.WithFields(fields).Debug("request completed")
	}

	return resp, nil
}
