package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/wesleyorama2/hitch/http"
	"github.com/wesleyorama2/hitch/internal/stats"
)

// Formatter is responsible for formatting requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatRequest formats a request line, plus the form body when verbose
func (f *Formatter) FormatRequest(call *http.Call) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "▶ REQUEST: %s %s\n",
		f.colors.Method.Sprint(call.Method),
		f.colors.URL.Sprint(call.URL))

	if f.Verbose && call.Form != "" {
		fmt.Fprintf(&buf, "  Form: %s\n", call.Form)
	}

	return buf.String()
}

// FormatResponse formats a response, followed by any inspection results
func (f *Formatter) FormatResponse(resp *http.Response, report *Report) string {
	var buf strings.Builder

	if resp.IsError() {
		fmt.Fprintf(&buf, "%s ERROR: %s (%ss)\n",
			ErrorIcon(f.NoColor), f.colors.Error.Sprint(resp.Error()), resp.ElapsedTime())
	} else {
		fmt.Fprintf(&buf, "◀ RESPONSE: %s (%ss)\n", f.status(resp), resp.ElapsedTime())
	}

	if f.Verbose {
		if headers := resp.HeaderMap(); len(headers) > 0 {
			buf.WriteString("  Headers:\n")
			buf.WriteString(f.headerTable(headers))
		}
	}

	if !report.Empty() {
		buf.WriteString(f.formatReport(report))
		if !f.Verbose {
			return buf.String()
		}
	}

	if body, ok := resp.Body(); ok && body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(body))
		buf.WriteString("\n")
	}

	return buf.String()
}

func (f *Formatter) status(resp *http.Response) string {
	code, ok := resp.StatusCode()
	switch {
	case !ok:
		return f.colors.StatusWarn.Sprint("no status")
	case code == http.StatusOK:
		return f.colors.StatusOK.Sprint(code)
	case code < 400:
		return f.colors.StatusWarn.Sprint(code)
	default:
		return f.colors.StatusError.Sprint(code)
	}
}

// headerTable renders the header map sorted by key
func (f *Formatter) headerTable(headers map[string]string) string {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.Header([]string{"Key", "Value"})
	for _, key := range keys {
		_ = table.Append([]string{key, headers[key]})
	}
	if err := table.Render(); err != nil {
		// Fall back to plain lines
		buf.Reset()
		for _, key := range keys {
			fmt.Fprintf(&buf, "    %s: %s\n", key, headers[key])
		}
	}
	return buf.String()
}

func (f *Formatter) formatReport(report *Report) string {
	var buf strings.Builder

	for _, ex := range report.Extracts {
		fmt.Fprintf(&buf, "  Extract %s: %d match(es)\n", f.colors.Highlight.Sprint(ex.Pattern), len(ex.Matches))
		for _, m := range ex.Matches {
			fmt.Fprintf(&buf, "    %s\n", m)
		}
	}

	for _, m := range report.Matches {
		fmt.Fprintf(&buf, "  Match %s (%s): %d\n", f.colors.Highlight.Sprint(m.Input), m.Kind, m.Count)
	}

	if len(report.JSONPath) > 0 {
		names := make([]string, 0, len(report.JSONPath))
		for name := range report.JSONPath {
			names = append(names, name)
		}
		sort.Strings(names)
		buf.WriteString("  JSONPath:\n")
		for _, name := range names {
			fmt.Fprintf(&buf, "    %s = %s\n", f.colors.HeaderKey.Sprint(name), report.JSONPath[name])
		}
	}

	writeSelectors := func(label string, results []SelectorResult) {
		for _, sel := range results {
			fmt.Fprintf(&buf, "  %s %s: %d node(s)\n", label, f.colors.Highlight.Sprint(sel.Selector), len(sel.Values))
			for _, v := range sel.Values {
				fmt.Fprintf(&buf, "    %s\n", v)
			}
		}
	}
	writeSelectors("CSS", report.CSS)
	writeSelectors("XPath", report.XPath)

	if report.Schema != nil {
		if report.Schema.Valid {
			fmt.Fprintf(&buf, "  %s Schema: valid\n", SuccessIcon(f.NoColor))
		} else {
			fmt.Fprintf(&buf, "  %s Schema: invalid\n", ErrorIcon(f.NoColor))
			for _, e := range report.Schema.Errors {
				fmt.Fprintf(&buf, "    %s\n", e)
			}
		}
	}

	for _, e := range report.Errors {
		fmt.Fprintf(&buf, "  %s %s\n", ErrorIcon(f.NoColor), f.colors.Error.Sprint(e))
	}

	return buf.String()
}

// FormatSummary renders repeat statistics as a table
func (f *Formatter) FormatSummary(summary stats.Summary) string {
	data := summaryData(summary)

	var buf bytes.Buffer
	buf.WriteString("Summary:\n")

	table := tablewriter.NewWriter(&buf)
	table.Header([]string{"Metric", "Value"})
	rows := [][]string{
		{"requests", fmt.Sprint(data.Count)},
		{"success", fmt.Sprint(data.Success)},
		{"failed", fmt.Sprint(data.Failed)},
		{"min", data.Min},
		{"mean", data.Mean},
		{"p50", data.P50},
		{"p90", data.P90},
		{"p99", data.P99},
		{"max", data.Max},
		{"wall", data.Wall},
	}
	for _, s := range data.Statuses {
		rows = append(rows, []string{fmt.Sprintf("status %d", s.Code), fmt.Sprint(s.Count)})
	}
	for _, row := range rows {
		_ = table.Append(row)
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Summary: %d requests, %d failed\n", data.Count, data.Failed)
	}

	return buf.String()
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
