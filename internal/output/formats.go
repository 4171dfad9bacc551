package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/hitch/http"
	"github.com/wesleyorama2/hitch/internal/stats"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(name)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (expected text, json or yaml)", name)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(call *http.Call) string
	FormatResponse(resp *http.Response, report *Report) string
	FormatSummary(summary stats.Summary) string
}

// GetFormatter returns the formatter for format
func GetFormatter(format OutputFormat, verbose, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method    string `json:"method" yaml:"method"`
	URL       string `json:"url" yaml:"url"`
	Form      string `json:"form,omitempty" yaml:"form,omitempty"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	URL        string            `json:"url" yaml:"url"`
	StatusCode *int              `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Success    bool              `json:"success" yaml:"success"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	Elapsed    string            `json:"elapsed" yaml:"elapsed"`
	Headers    []string          `json:"headers,omitempty" yaml:"headers,omitempty"`
	HeaderMap  map[string]string `json:"headerMap,omitempty" yaml:"headerMap,omitempty"`
	Body       *string           `json:"body,omitempty" yaml:"body,omitempty"`
	Report     *Report           `json:"report,omitempty" yaml:"report,omitempty"`
	Timestamp  string            `json:"timestamp" yaml:"timestamp"`
}

// NewRequestData captures a call for structured output
func NewRequestData(call *http.Call) RequestData {
	return RequestData{
		Method:    call.Method,
		URL:       call.URL,
		Form:      call.Form,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewResponseData captures a response for structured output. Headers and
// body are only included when verbose is set or the report is empty, so
// inspections print just their results.
func NewResponseData(resp *http.Response, report *Report, verbose bool) ResponseData {
	data := ResponseData{
		URL:       resp.URL(),
		Success:   resp.IsSuccess(),
		Elapsed:   resp.ElapsedTime(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if code, ok := resp.StatusCode(); ok {
		data.StatusCode = &code
	}
	if resp.IsError() {
		data.Error = resp.Error()
	}
	if !report.Empty() {
		data.Report = report
	}

	if verbose {
		data.Headers = resp.Headers()
		data.HeaderMap = resp.HeaderMap()
	}
	if verbose || report.Empty() {
		if body, ok := resp.Body(); ok {
			data.Body = &body
		}
	}
	return data
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v interface{}) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal output: %s"}`, err)
	}
	return string(output)
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(call *http.Call) string {
	return f.marshal(NewRequestData(call))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp *http.Response, report *Report) string {
	return f.marshal(NewResponseData(resp, report, f.Verbose))
}

// FormatSummary formats repeat statistics as JSON
func (f *JSONFormatter) FormatSummary(summary stats.Summary) string {
	return f.marshal(summaryData(summary))
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(v interface{}) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: failed to marshal output: %s\n", err)
	}
	return string(output)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(call *http.Call) string {
	return f.marshal(NewRequestData(call))
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp *http.Response, report *Report) string {
	return f.marshal(NewResponseData(resp, report, f.Verbose))
}

// FormatSummary formats repeat statistics as YAML
func (f *YAMLFormatter) FormatSummary(summary stats.Summary) string {
	return f.marshal(summaryData(summary))
}

// SummaryData is repeat statistics with durations rendered as strings
type SummaryData struct {
	Count    int64               `json:"count" yaml:"count"`
	Success  int64               `json:"success" yaml:"success"`
	Failed   int64               `json:"failed" yaml:"failed"`
	Min      string              `json:"min" yaml:"min"`
	Mean     string              `json:"mean" yaml:"mean"`
	P50      string              `json:"p50" yaml:"p50"`
	P90      string              `json:"p90" yaml:"p90"`
	P99      string              `json:"p99" yaml:"p99"`
	Max      string              `json:"max" yaml:"max"`
	Wall     string              `json:"wall" yaml:"wall"`
	Statuses []stats.StatusCount `json:"statuses" yaml:"statuses"`
}

func summaryData(s stats.Summary) SummaryData {
	return SummaryData{
		Count:    s.Count,
		Success:  s.Success,
		Failed:   s.Failed,
		Min:      s.Min.String(),
		Mean:     s.Mean.String(),
		P50:      s.P50.String(),
		P90:      s.P90.String(),
		P99:      s.P99.String(),
		Max:      s.Max.String(),
		Wall:     s.Wall.Round(time.Millisecond).String(),
		Statuses: s.Statuses,
	}
}
