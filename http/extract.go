package http

import (
	"fmt"
	"regexp"
	"strings"
)

// SearchKind says how Match interprets its input.
type SearchKind int

const (
	// SearchLiteral counts non-overlapping, case-sensitive substrings.
	SearchLiteral SearchKind = iota
	// SearchPattern counts regular expression matches.
	SearchPattern
)

// String returns the name of the kind
func (k SearchKind) String() string {
	if k == SearchPattern {
		return "pattern"
	}
	return "literal"
}

// SearchInput is a Match argument whose literal-or-pattern meaning has
// already been decided.
type SearchInput struct {
	Kind  SearchKind
	Value string
}

// Pattern returns a SearchInput that is always treated as a pattern.
func Pattern(p string) SearchInput {
	return SearchInput{Kind: SearchPattern, Value: p}
}

// Literal returns a SearchInput that is always treated as a substring.
func Literal(s string) SearchInput {
	return SearchInput{Kind: SearchLiteral, Value: s}
}

var (
	delimitedPattern = regexp.MustCompile(`^/.*/[a-zA-Z]*$`)
	delimitedParts   = regexp.MustCompile(`(?s)^/(.*)/([a-zA-Z]*)$`)
)

// ParseSearchInput decides once whether s is a pattern or a literal. Only
// input wrapped in slashes with optional trailing flags ("/keyword/i") is
// a pattern; anything else is a literal.
func ParseSearchInput(s string) SearchInput {
	if delimitedPattern.MatchString(s) {
		return Pattern(s)
	}
	return Literal(s)
}

// CompilePattern compiles "/expr/flags" or a bare Go regular expression.
// Flags i, m, s and U map to Go's inline flags; u is accepted and ignored
// since Go always matches UTF-8.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	expr := pattern
	if m := delimitedParts.FindStringSubmatch(pattern); m != nil {
		var flags strings.Builder
		for _, f := range m[2] {
			switch f {
			case 'i', 'm', 's', 'U':
				if !strings.ContainsRune(flags.String(), f) {
					flags.WriteRune(f)
				}
			case 'u':
			default:
				return nil, &InvalidPatternError{
					Pattern: pattern,
					Err:     fmt.Errorf("unknown modifier %q", f),
				}
			}
		}
		expr = m[1]
		if flags.Len() > 0 {
			expr = "(?" + flags.String() + ")" + expr
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Extract returns every match of pattern in the body, in order. A valid
// pattern with no matches yields an empty slice.
func (r *Response) Extract(pattern string) ([]string, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	matches := re.FindAllString(r.body, -1)
	if matches == nil {
		return []string{}, nil
	}
	return matches, nil
}

// ExtractMap is Extract followed by fn applied to each match.
func ExtractMap[T any](r *Response, pattern string, fn func(string) T) ([]T, error) {
	matches, err := r.Extract(pattern)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = fn(m)
	}
	return out, nil
}

// Match counts occurrences of s in the body. "/expr/flags" is a pattern,
// anything else a literal substring.
//
//	resp.Match("/keyword/i") // case-insensitive pattern count
//	resp.Match("keyword")    // literal count
func (r *Response) Match(s string) (int, error) {
	return r.Count(ParseSearchInput(s))
}

// Count counts occurrences of in within the body.
func (r *Response) Count(in SearchInput) (int, error) {
	if in.Kind == SearchLiteral {
		if in.Value == "" {
			return 0, nil
		}
		return strings.Count(r.body, in.Value), nil
	}

	re, err := CompilePattern(in.Value)
	if err != nil {
		return 0, err
	}
	return len(re.FindAllStringIndex(r.body, -1)), nil
}
