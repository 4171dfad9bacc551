package http

import "time"

// ResultShape tells Parse how the raw transport output is laid out.
type ResultShape int

const (
	// ShapeSplit carries the body and header lines separately.
	ShapeSplit ResultShape = iota
	// ShapeEmbedded carries one blob with the header block first;
	// HeaderSize is the byte offset where the body starts.
	ShapeEmbedded
)

// TransportResult is the raw, unnormalized outcome of one transport call.
type TransportResult struct {
	Shape ResultShape

	// Embedded shape
	Blob       []byte
	HeaderSize int

	// Split shape
	Body    []byte
	Headers []string

	// URL is the request URL after query-string assembly.
	URL string

	// Start is taken immediately before the transport performs I/O.
	Start time.Time

	// Failed marks a fetch that produced no body. ErrMessage is the
	// transport's own diagnostic, copied verbatim.
	Failed     bool
	ErrMessage string
}

// EmbeddedResult builds a result for transports that return headers and
// body as one blob.
func EmbeddedResult(url string, start time.Time, blob []byte, headerSize int) *TransportResult {
	return &TransportResult{
		Shape:      ShapeEmbedded,
		URL:        url,
		Start:      start,
		Blob:       blob,
		HeaderSize: headerSize,
	}
}

// SplitResult builds a result for transports that return the body and
// the header lines separately.
func SplitResult(url string, start time.Time, body []byte, headers []string) *TransportResult {
	return &TransportResult{
		Shape:   ShapeSplit,
		URL:     url,
		Start:   start,
		Body:    body,
		Headers: headers,
	}
}

// FailedResult builds a result for a fetch that produced no body.
func FailedResult(url string, start time.Time, message string) *TransportResult {
	return &TransportResult{
		Shape:      ShapeSplit,
		URL:        url,
		Start:      start,
		Failed:     true,
		ErrMessage: message,
	}
}
