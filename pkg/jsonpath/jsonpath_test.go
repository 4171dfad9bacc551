package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const doc = `{
	"user": {"name": "Ada", "age": 36, "tags": ["x", "y"], "nick": null},
	"items": [{"id": 2}, {"id": 44}, {"id": 666}],
	"odd key": {"a.b": true}
}`

func TestTranslate(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"$", "@this"},
		{"$.user.name", "user.name"},
		{"$.items[1].id", "items.1.id"},
		{"$['odd key']", "odd key"},
		{`$["odd key"]['a.b']`, `odd key.a\.b`},
		{"$.items[*].id", "items.#.id"},
		{"user.name", "user.name"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Translate(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	for _, path := range []string{"", "$.", "$.items[1", "$[]", "$x"} {
		t.Run(path, func(t *testing.T) {
			_, err := Translate(path)
			var pathErr *PathError
			assert.ErrorAs(t, err, &pathErr)
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"$.user.name", "Ada"},
		{"$.user.age", "36"},
		{"$.user.nick", "null"},
		{"$.user.tags", `["x", "y"]`},
		{"$.items[2].id", "666"},
		{"$.items[*].id", "[2,44,666]"},
		{`$['odd key']['a.b']`, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Extract(doc, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract("", "$.a")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Extract("<html>", "$.a")
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = Extract(doc, "$.user.missing")
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "not found", pathErr.Reason)
}

func TestLookup(t *testing.T) {
	result, err := Lookup(doc, "$.items")
	require.NoError(t, err)
	assert.True(t, result.IsArray())
	assert.Len(t, result.Array(), 3)
	assert.Equal(t, gjson.Number, result.Array()[0].Get("id").Type)
}

func TestExtractAll(t *testing.T) {
	values, err := ExtractAll(doc, map[string]string{
		"name": "$.user.name",
		"last": "$.items[2].id",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Ada", "last": "666"}, values)

	values, err = ExtractAll(doc, map[string]string{
		"name":    "$.user.name",
		"missing": "$.nope",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing:")
	assert.Equal(t, "Ada", values["name"])

	values, err = ExtractAll(doc, nil)
	require.NoError(t, err)
	assert.Empty(t, values)
}
