package http

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithBody(body string) *Response {
	return Parse(SplitResult("http://example.com/", time.Now(), []byte(body), []string{"HTTP/1.1 200 OK"}))
}

func TestResponse_Extract(t *testing.T) {
	resp := responseWithBody("a1 b22 c333")

	matches, err := resp.Extract(`/\d+/`)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "22", "333"}, matches)

	// Bare Go expressions are accepted too
	matches, err = resp.Extract(`[a-c]\d`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2", "c3"}, matches)
}

func TestResponse_ExtractNoMatches(t *testing.T) {
	resp := responseWithBody("a1 b22 c333")

	matches, err := resp.Extract(`/z+/`)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestResponse_ExtractFlags(t *testing.T) {
	resp := responseWithBody("Title\ntitle\nTITLE")

	matches, err := resp.Extract(`/^title$/im`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "title", "TITLE"}, matches)

	matches, err = resp.Extract(`/title/u`)
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, matches)
}

func TestResponse_ExtractInvalidPattern(t *testing.T) {
	resp := responseWithBody("a1 b22 c333")

	for _, pattern := range []string{`/(/`, `/a/x`, `[`} {
		t.Run(pattern, func(t *testing.T) {
			_, err := resp.Extract(pattern)

			var patternErr *InvalidPatternError
			require.True(t, errors.As(err, &patternErr), "got %v", err)
			assert.Equal(t, pattern, patternErr.Pattern)
		})
	}
}

func TestExtractMap(t *testing.T) {
	resp := responseWithBody("a1 b22 c333")

	doubled, err := ExtractMap(resp, `/\d+/`, func(s string) int {
		n, _ := strconv.Atoi(s)
		return n * 2
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 44, 666}, doubled)

	_, err = ExtractMap(resp, `/(/`, func(s string) int { return 0 })
	var patternErr *InvalidPatternError
	assert.True(t, errors.As(err, &patternErr))
}

func TestResponse_Match(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		input    string
		expected int
	}{
		{"case-insensitive pattern", "Foo foo FOO", "/foo/i", 3},
		{"literal is case-sensitive", "Foo foo FOO", "foo", 1},
		{"case-sensitive pattern", "Foo foo FOO", "/foo/", 1},
		{"pattern without matches", "Foo foo FOO", "/bar/", 0},
		{"literal without matches", "Foo foo FOO", "bar", 0},
		{"literal counts non-overlapping", "aaaa", "aa", 2},
		{"empty literal", "abc", "", 0},
		{"slash inside literal", "a/b a/b", "a/b", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := responseWithBody(tt.body).Match(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, count)
		})
	}
}

func TestResponse_MatchInvalidPattern(t *testing.T) {
	_, err := responseWithBody("abc").Match(`/(/`)

	var patternErr *InvalidPatternError
	assert.True(t, errors.As(err, &patternErr))
}

func TestResponse_MatchOnFailedResponse(t *testing.T) {
	resp := Parse(FailedResult("http://example.com/", time.Now(), "boom"))

	count, err := resp.Match("/x/")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = resp.Match("x")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestParseSearchInput(t *testing.T) {
	tests := []struct {
		input    string
		expected SearchInput
	}{
		{"/keyword/i", Pattern("/keyword/i")},
		{"/keyword/", Pattern("/keyword/")},
		{"/a/b/", Pattern("/a/b/")},
		{"keyword", Literal("keyword")},
		{"a/b", Literal("a/b")},
		{"/keyword/1", Literal("/keyword/1")},
		{"/keyword", Literal("/keyword")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSearchInput(tt.input))
		})
	}
}

func TestResponse_Count(t *testing.T) {
	resp := responseWithBody("a.b.c")

	// A literal is never interpreted as a pattern
	count, err := resp.Count(Literal("."))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = resp.Count(Pattern("."))
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestSearchKind_String(t *testing.T) {
	assert.Equal(t, "pattern", SearchPattern.String())
	assert.Equal(t, "literal", SearchLiteral.String())
}
