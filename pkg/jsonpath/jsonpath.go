// Package jsonpath reads values out of JSON response bodies using a small
// JSONPath dialect ($.a.b[0]['c d']) translated to gjson paths.
package jsonpath

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyDocument is returned when there is no body to query
	ErrEmptyDocument = errors.New("empty JSON document")

	// ErrInvalidDocument is returned when the body is not JSON
	ErrInvalidDocument = errors.New("invalid JSON document")
)

// PathError reports a path that is malformed or matches nothing
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("jsonpath %q: %s", e.Path, e.Reason)
}

// Lookup evaluates path against doc and returns the raw gjson result
func Lookup(doc, path string) (gjson.Result, error) {
	if strings.TrimSpace(doc) == "" {
		return gjson.Result{}, ErrEmptyDocument
	}
	if !gjson.Valid(doc) {
		return gjson.Result{}, ErrInvalidDocument
	}

	gpath, err := Translate(path)
	if err != nil {
		return gjson.Result{}, err
	}

	result := gjson.Get(doc, gpath)
	if !result.Exists() {
		return gjson.Result{}, &PathError{Path: path, Reason: "not found"}
	}
	return result, nil
}

// Extract evaluates path against doc and renders the value as text.
// Strings come back unquoted, JSON null as "null", objects and arrays as
// their raw JSON.
func Extract(doc, path string) (string, error) {
	result, err := Lookup(doc, path)
	if err != nil {
		return "", err
	}

	switch result.Type {
	case gjson.Null:
		return "null", nil
	case gjson.JSON:
		return result.Raw, nil
	default:
		return result.String(), nil
	}
}

// ExtractAll evaluates every named path. Values that resolve are returned
// even when others fail; the error lists the failures by name.
func ExtractAll(doc string, paths map[string]string) (map[string]string, error) {
	if len(paths) == 0 {
		return map[string]string{}, nil
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]string, len(paths))
	var failures []string
	for _, name := range names {
		value, err := Extract(doc, paths[name])
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		values[name] = value
	}

	if len(failures) > 0 {
		return values, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return values, nil
}

// Translate converts a JSONPath expression into a gjson path. Paths that
// do not start with "$" are assumed to already be gjson syntax.
func Translate(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", &PathError{Path: path, Reason: "empty expression"}
	}
	if !strings.HasPrefix(path, "$") {
		return path, nil
	}

	var segments []string
	rest := path[1:]
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return "", &PathError{Path: path, Reason: "empty segment"}
			}
			segments = append(segments, escape(rest[:end]))
			rest = rest[end:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", &PathError{Path: path, Reason: "unclosed bracket"}
			}
			inner := strings.TrimSpace(rest[1:end])
			if unquoted, ok := unquote(inner); ok {
				segments = append(segments, escape(unquoted))
			} else if inner == "*" {
				segments = append(segments, "#")
			} else if inner != "" {
				segments = append(segments, inner)
			} else {
				return "", &PathError{Path: path, Reason: "empty brackets"}
			}
			rest = rest[end+1:]
		default:
			return "", &PathError{Path: path, Reason: fmt.Sprintf("unexpected %q", rest[0])}
		}
	}

	if len(segments) == 0 {
		return "@this", nil
	}
	return strings.Join(segments, "."), nil
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// escape protects gjson's metacharacters inside a single key
func escape(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
