package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"
)

// FetchTransport is the simple blocking fetch. It returns the body and the
// header lines separately (ShapeSplit). Every call gets its own
// connection, which is closed when the call returns.
type FetchTransport struct {
	// RoundTripper overrides the per-call transport, mainly for tests.
	RoundTripper http.RoundTripper
}

// NewFetchTransport creates a FetchTransport.
func NewFetchTransport() *FetchTransport {
	return &FetchTransport{}
}

// Fetch performs the call with net/http.
func (t *FetchTransport) Fetch(ctx context.Context, call *Call) *TransportResult {
	var body io.Reader
	if call.Method == MethodPost {
		body = strings.NewReader(call.Form)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, call.Method, call.URL, body)
	if err != nil {
		return FailedResult(call.URL, start, err.Error())
	}
	if call.Method == MethodPost {
		httpReq.Header.Set("Content-Type", FormContentType)
	}
	if call.Referer != "" {
		httpReq.Header.Set("Referer", call.Referer)
	}
	if call.UserAgent != "" {
		httpReq.Header.Set("User-Agent", call.UserAgent)
	}

	// Header blocks of redirect hops, in the order they were received.
	var hops []string
	follow := call.FollowRedirects && call.Method != MethodHead

	client := &http.Client{
		Timeout:   call.Timeout,
		Transport: t.roundTripper(call.Timeout),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !follow {
				return http.ErrUseLastResponse
			}
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if req.Response != nil {
				hops = append(hops, headerLines(req.Response)...)
			}
			return nil
		},
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return FailedResult(call.URL, start, err.Error())
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return FailedResult(call.URL, start, err.Error())
	}

	return SplitResult(call.URL, start, payload, append(hops, headerLines(httpResp)...))
}

func (t *FetchTransport) roundTripper(timeout time.Duration) http.RoundTripper {
	if t.RoundTripper != nil {
		return t.RoundTripper
	}
	return &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DialContext:       (&net.Dialer{Timeout: timeout}).DialContext,
		DisableKeepAlives: true,
	}
}

// headerLines renders a response's status line and headers the way they
// appear on the wire. net/http does not keep header order, so names are
// sorted to keep the output stable.
func headerLines(resp *http.Response) []string {
	lines := []string{fmt.Sprintf("%s %s", resp.Proto, resp.Status)}

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range resp.Header[name] {
			lines = append(lines, name+": "+value)
		}
	}
	return lines
}
