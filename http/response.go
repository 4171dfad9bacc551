package http

import (
	"bytes"
	"strconv"
	"time"
)

// StatusOK is the only status code Response treats as success.
const StatusOK = 200

// DefaultElapsedPrecision is the number of decimals used by ElapsedTime.
const DefaultElapsedPrecision = 5

// Response is the normalized outcome of one request. It is built once by
// Parse and is read-only afterwards.
type Response struct {
	url        string
	body       string
	hasBody    bool
	headers    []string
	statusCode int
	hasStatus  bool
	elapsed    time.Duration
	isError    bool
	errMessage string
}

// Parse normalizes a TransportResult into a Response. Both result shapes
// go through the same status and classification logic.
func Parse(result *TransportResult) *Response {
	var body []byte
	var headers []string

	switch result.Shape {
	case ShapeEmbedded:
		size := result.HeaderSize
		if size < 0 {
			size = 0
		}
		if size > len(result.Blob) {
			size = len(result.Blob)
		}
		headers = splitHeaderBlock(result.Blob[:size])
		body = result.Blob[size:]
	default:
		body = result.Body
		headers = nonEmpty(result.Headers)
	}

	resp := &Response{
		url:     result.URL,
		headers: headers,
		elapsed: time.Since(result.Start),
	}

	if result.Failed {
		resp.isError = true
		resp.errMessage = result.ErrMessage
	} else {
		resp.body = string(body)
		resp.hasBody = true
	}

	resp.statusCode, resp.hasStatus = findStatusCode(headers)

	return resp
}

// StatusCode returns the code from the first status line in the headers.
// ok is false when no header line looked like a status line.
func (r *Response) StatusCode() (code int, ok bool) {
	return r.statusCode, r.hasStatus
}

// Headers returns the raw header lines in the order they were received.
func (r *Response) Headers() []string {
	headers := make([]string, len(r.headers))
	copy(headers, r.headers)
	return headers
}

// Body returns the response payload. ok is false when the transport failed.
func (r *Response) Body() (body string, ok bool) {
	return r.body, r.hasBody
}

// BodyString returns the response payload, or "" when there is none.
func (r *Response) BodyString() string {
	return r.body
}

// URL returns the request URL, including any query string.
func (r *Response) URL() string {
	return r.url
}

// Elapsed returns the request duration in seconds.
func (r *Response) Elapsed() float64 {
	return r.elapsed.Seconds()
}

// ElapsedDuration returns the request duration.
func (r *Response) ElapsedDuration() time.Duration {
	return r.elapsed
}

// ElapsedString formats the elapsed seconds with a fixed number of
// decimals. Negative precision is treated as zero.
func (r *Response) ElapsedString(precision int) string {
	if precision < 0 {
		precision = 0
	}
	return strconv.FormatFloat(r.elapsed.Seconds(), 'f', precision, 64)
}

// ElapsedTime formats the elapsed seconds with DefaultElapsedPrecision.
func (r *Response) ElapsedTime() string {
	return r.ElapsedString(DefaultElapsedPrecision)
}

// IsSuccess returns true if the status code is exactly 200.
func (r *Response) IsSuccess() bool {
	return r.hasStatus && r.statusCode == StatusOK
}

// IsError returns true if the transport failed to fetch the URL. A
// response without a status line is not an error by itself.
func (r *Response) IsError() bool {
	return r.isError
}

// Error returns the transport diagnostic when IsError is true.
func (r *Response) Error() string {
	return r.errMessage
}

// splitHeaderBlock splits raw header bytes on CRLF, dropping empty lines.
func splitHeaderBlock(block []byte) []string {
	var lines []string
	for _, line := range bytes.Split(block, []byte("\r\n")) {
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}
	if lines == nil {
		return []string{}
	}
	return lines
}

func nonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
