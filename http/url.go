package http

import "regexp"

// urlPattern is a sanity filter, not a URL grammar: a scheme, then a
// host-like token with a dot, then a terminator.
var urlPattern = regexp.MustCompile(`(?i)(https?://(\S*?\.\S*?))(\s|;|\)|\]|\[|\{|\}|,|"|'|:|<|$|\.\s)`)

// ValidateURL checks that rawURL contains an http:// or https:// URL with
// a dotted host. It does not attempt full RFC 3986 validation.
func ValidateURL(rawURL string) error {
	if rawURL == "" || !urlPattern.MatchString(rawURL) {
		return &InvalidURLError{URL: rawURL}
	}
	return nil
}
