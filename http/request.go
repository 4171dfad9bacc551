package http

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeoutSeconds is used when a Request's timeout is not positive.
const DefaultTimeoutSeconds = 10

// Request accumulates parameters and options for one URL. Create it with
// NewRequest or Client.NewRequest, then call Get, Head or Post.
type Request struct {
	client *Client
	url    string
	params *params

	// FollowRedirects is ignored for HEAD requests, which never follow.
	FollowRedirects bool
	// TimeoutSeconds bounds connecting and the whole exchange. Values
	// below 1 mean DefaultTimeoutSeconds.
	TimeoutSeconds int
	Referer        string
	UserAgent      string
	// UseConn selects the connection transport instead of the simple fetch.
	UseConn bool
}

// NewRequest validates rawURL and creates a Request with a fresh Client.
//
// Example:
//
//	req, err := http.NewRequest("https://www.example.com/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req.Param("var1", "value_1")
//	resp, err := req.Get(context.Background())
func NewRequest(rawURL string) (*Request, error) {
	return NewClient().NewRequest(rawURL)
}

// URL returns the URL the Request was created with.
func (r *Request) URL() string {
	return r.url
}

// Param sets a request parameter. Setting a key again replaces its value
// but keeps its original position.
// Returns the Request to allow method chaining.
func (r *Request) Param(key, value string) *Request {
	r.params.set(key, value)
	return r
}

// Params returns the parameters as an ordered list of key/value pairs.
func (r *Request) Params() [][2]string {
	return r.params.pairs()
}

// Timeout returns the effective timeout.
func (r *Request) Timeout() time.Duration {
	if r.TimeoutSeconds > 0 {
		return time.Duration(r.TimeoutSeconds) * time.Second
	}
	return DefaultTimeoutSeconds * time.Second
}

// Get sends the request with the GET method.
func (r *Request) Get(ctx context.Context) (*Response, error) {
	return r.Do(ctx, MethodGet)
}

// Head sends the request with the HEAD method. Redirects are not followed.
func (r *Request) Head(ctx context.Context) (*Response, error) {
	return r.Do(ctx, MethodHead)
}

// Post sends the parameters as a form-encoded body.
func (r *Request) Post(ctx context.Context) (*Response, error) {
	return r.Do(ctx, MethodPost)
}

// Do sends the request with method, which must be GET, HEAD or POST.
// The only errors returned are for an unknown method or an unavailable
// transport; a failed fetch is reported by Response.IsError.
func (r *Request) Do(ctx context.Context, method string) (*Response, error) {
	method = strings.ToUpper(method)

	call, err := r.Call(method)
	if err != nil {
		return nil, err
	}

	kind := TransportFetch
	if r.UseConn {
		kind = TransportConn
	}

	return r.client.do(ctx, kind, call)
}

// Call assembles the transport input for method without sending anything.
func (r *Request) Call(method string) (*Call, error) {
	if method != MethodGet && method != MethodHead && method != MethodPost {
		return nil, &UnsupportedMethodError{Method: method}
	}

	call := &Call{
		Method:          method,
		URL:             r.url,
		FollowRedirects: r.FollowRedirects && method != MethodHead,
		Timeout:         r.Timeout(),
		Referer:         r.Referer,
		UserAgent:       r.UserAgent,
	}

	query := r.params.encode()
	if method == MethodPost {
		call.Form = query
	} else if query != "" {
		sep := "?"
		if strings.Contains(r.url, "?") {
			sep = "&"
		}
		call.URL = r.url + sep + query
	}

	return call, nil
}

// params keeps request parameters in insertion order.
type params struct {
	keys   []string
	values map[string]string
}

func newParams() *params {
	return &params{values: make(map[string]string)}
}

func (p *params) set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *params) pairs() [][2]string {
	out := make([][2]string, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, [2]string{k, p.values[k]})
	}
	return out
}

// encode produces "k1=v1&k2=v2" in insertion order.
func (p *params) encode() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}
