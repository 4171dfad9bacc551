package http

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	statusLinePattern = regexp.MustCompile(`(?i)HTTP/\d\.\d (\d{3})`)
	headerLinePattern = regexp.MustCompile(`^([\w-]+):\s?(.*)$`)
	nonWordPattern    = regexp.MustCompile(`\W`)
)

// findStatusCode scans lines in order; the first status line wins.
func findStatusCode(lines []string) (int, bool) {
	for _, line := range lines {
		m := statusLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return code, true
	}
	return 0, false
}

// HeaderKey normalizes a header name: lower-cased, every non-word
// character replaced by an underscore ("Content-Type" -> "content_type").
func HeaderKey(name string) string {
	return strings.ToLower(nonWordPattern.ReplaceAllString(name, "_"))
}

// HeaderMap returns the "key: value" header lines keyed by HeaderKey.
// Lines that are not in that shape, such as the status line, are skipped.
// When a key repeats, the last line wins. The map is rebuilt on every call.
func (r *Response) HeaderMap() map[string]string {
	headers := make(map[string]string)
	for _, line := range r.headers {
		m := headerLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		headers[HeaderKey(m[1])] = m[2]
	}
	return headers
}

// Header returns the value of the named header from HeaderMap, matching
// the name after normalization.
func (r *Response) Header(name string) string {
	return r.HeaderMap()[HeaderKey(name)]
}
