package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Numeric codes reported in connection transport diagnostics. They follow
// the libcurl numbering so messages read the same as curl's.
const (
	connErrUnsupportedProtocol = 1
	connErrMalformedURL        = 3
	connErrResolveHost         = 6
	connErrConnect             = 7
	connErrTimeout             = 28
	connErrTLS                 = 35
	connErrAborted             = 42
	connErrTooManyRedirects    = 47
	connErrEmptyReply          = 52
	connErrSend                = 55
	connErrRecv                = 56
)

// connError is a connection transport failure with its numeric code.
type connError struct {
	Code int
	Err  error
}

func (e *connError) Error() string {
	return fmt.Sprintf("%v (Code: %d)", e.Err, e.Code)
}

func (e *connError) Unwrap() error {
	return e.Err
}

// ConnTransport speaks HTTP/1.0 over a connection it opens for each hop
// and returns the header block and body as one blob (ShapeEmbedded).
type ConnTransport struct {
	// DialContext opens the TCP connection. Defaults to a net.Dialer.
	DialContext func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewConnTransport creates a ConnTransport.
func NewConnTransport() *ConnTransport {
	return &ConnTransport{}
}

// connHandle owns one open connection. release closes it exactly once,
// however many times it is called.
type connHandle struct {
	conn     net.Conn
	once     sync.Once
	closeErr error
}

func (h *connHandle) release() error {
	h.once.Do(func() {
		h.closeErr = h.conn.Close()
	})
	return h.closeErr
}

// Fetch performs the call, following redirects itself when asked to. The
// header blocks of all hops are kept, in order, ahead of the final body.
func (t *ConnTransport) Fetch(ctx context.Context, call *Call) *TransportResult {
	start := time.Now()

	timeout := call.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds * time.Second
	}

	blob, headerSize, err := t.exchangeChain(ctx, call, start.Add(timeout))
	if err != nil {
		return FailedResult(call.URL, start, err.Error())
	}
	return EmbeddedResult(call.URL, start, blob, headerSize)
}

func (t *ConnTransport) exchangeChain(ctx context.Context, call *Call, deadline time.Time) ([]byte, int, error) {
	method, target, form := call.Method, call.URL, call.Form
	follow := call.FollowRedirects && call.Method != MethodHead

	var blob bytes.Buffer
	headerSize := 0

	for hops := 0; ; hops++ {
		u, err := url.Parse(target)
		if err != nil {
			return nil, 0, &connError{Code: connErrMalformedURL, Err: err}
		}

		raw, err := t.exchange(ctx, u, method, form, call, deadline)
		if err != nil {
			return nil, 0, err
		}

		head, body := splitReply(raw)
		if len(head) == 0 {
			return nil, 0, &connError{Code: connErrEmptyReply, Err: errors.New("empty reply from server")}
		}
		blob.Write(head)
		headerSize += len(head)

		code, location := redirectTarget(head)
		if follow && location != "" && isRedirect(code) {
			if hops >= maxRedirects {
				return nil, 0, &connError{
					Code: connErrTooManyRedirects,
					Err:  fmt.Errorf("maximum (%d) redirects followed", maxRedirects),
				}
			}
			next, err := u.Parse(location)
			if err != nil {
				return nil, 0, &connError{Code: connErrMalformedURL, Err: err}
			}
			target = next.String()
			if code == 303 || ((code == 301 || code == 302) && method == MethodPost) {
				method, form = MethodGet, ""
			}
			continue
		}

		blob.Write(body)
		return blob.Bytes(), headerSize, nil
	}
}

// exchange sends one request and reads the reply until the server closes
// the connection. The handle is released on every return path.
func (t *ConnTransport) exchange(ctx context.Context, u *url.URL, method, form string, call *Call, deadline time.Time) ([]byte, error) {
	h, err := t.open(ctx, u, deadline)
	if err != nil {
		return nil, err
	}
	defer h.release()

	stop := context.AfterFunc(ctx, func() {
		_ = h.conn.SetDeadline(time.Now())
	})
	defer stop()

	if err := h.conn.SetDeadline(deadline); err != nil {
		return nil, &connError{Code: connErrSend, Err: err}
	}

	if _, err := h.conn.Write(buildRequest(u, method, form, call)); err != nil {
		return nil, t.ioError(ctx, err, connErrSend)
	}

	raw, err := io.ReadAll(h.conn)
	if err != nil {
		return nil, t.ioError(ctx, err, connErrRecv)
	}
	return raw, nil
}

func (t *ConnTransport) open(ctx context.Context, u *url.URL, deadline time.Time) (*connHandle, error) {
	var defaultPort string
	switch strings.ToLower(u.Scheme) {
	case "http":
		defaultPort = "80"
	case "https":
		defaultPort = "443"
	default:
		return nil, &connError{
			Code: connErrUnsupportedProtocol,
			Err:  fmt.Errorf("protocol %q not supported", u.Scheme),
		}
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = defaultPort
	}

	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	dial := t.DialContext
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}

	conn, err := dial(dialCtx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, t.ioError(ctx, err, connErrConnect)
	}
	h := &connHandle{conn: conn}

	if defaultPort == "443" {
		tlsConn := tls.Client(conn, &tls.Config{ServerName: host})
		h.conn = tlsConn
		if err := tlsConn.HandshakeContext(dialCtx); err != nil {
			h.release()
			return nil, t.ioError(ctx, err, connErrTLS)
		}
	}

	return h, nil
}

// ioError attaches a code to an I/O error, preferring the more specific
// cause when one can be identified.
func (t *ConnTransport) ioError(ctx context.Context, err error, fallback int) error {
	if ctx.Err() != nil {
		return &connError{Code: connErrAborted, Err: ctx.Err()}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &connError{Code: connErrResolveHost, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &connError{Code: connErrTimeout, Err: err}
	}

	return &connError{Code: fallback, Err: err}
}

func buildRequest(u *url.URL, method, form string, call *Call) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "%s %s HTTP/1.0\r\n", method, u.RequestURI())
	fmt.Fprintf(&b, "Host: %s\r\n", u.Host)
	b.WriteString("Accept: */*\r\n")
	if call.UserAgent != "" {
		fmt.Fprintf(&b, "User-Agent: %s\r\n", call.UserAgent)
	}
	if call.Referer != "" {
		fmt.Fprintf(&b, "Referer: %s\r\n", call.Referer)
	}
	if method == MethodPost {
		fmt.Fprintf(&b, "Content-Type: %s\r\n", FormContentType)
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(form))
	}
	b.WriteString("Connection: close\r\n\r\n")

	if method == MethodPost {
		b.WriteString(form)
	}
	return b.Bytes()
}

// splitReply cuts a raw reply after the blank line ending the header
// block. A reply without one is all header.
func splitReply(raw []byte) (head, body []byte) {
	idx := bytes.Index(raw, []byte("\r\n\r\n"))
	if idx < 0 {
		return raw, nil
	}
	return raw[:idx+4], raw[idx+4:]
}

func redirectTarget(head []byte) (int, string) {
	lines := splitHeaderBlock(head)
	code, _ := findStatusCode(lines)

	for _, line := range lines {
		m := headerLinePattern.FindStringSubmatch(line)
		if m != nil && strings.EqualFold(m[1], "Location") {
			return code, strings.TrimSpace(m[2])
		}
	}
	return code, ""
}

func isRedirect(code int) bool {
	switch code {
	case 301, 302, 303, 307, 308:
		return true
	}
	return false
}
