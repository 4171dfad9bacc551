package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
defaults:
  timeoutSeconds: 5
  userAgent: hitch-test
  transport: conn
log:
  level: debug
  format: json
environments:
  dev:
    baseUrl: https://api-dev.example.com/
    variables:
      userId: "1"
requests:
  getUser:
    url: /users/{{userId}}
    method: GET
    params:
      b: "2"
      a: "{{userId}}"
    extract:
      - /id=(\d+)/
    match:
      - needle
    jsonPath:
      name: user.name
    css:
      - div.user
    schema: schemas/user.json
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "hitch.yaml", yamlConfig)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Defaults.TimeoutSeconds)
	assert.Equal(t, "hitch-test", cfg.Defaults.UserAgent)
	assert.Equal(t, "conn", cfg.Defaults.Transport)
	assert.Nil(t, cfg.Defaults.FollowRedirects)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.Contains(t, cfg.Environments, "dev")
	assert.Equal(t, "1", cfg.Environments["dev"].Vars["userId"])

	req := cfg.Requests["getUser"]
	assert.Equal(t, "/users/{{userId}}", req.URL)
	assert.Equal(t, []string{`/id=(\d+)/`}, req.Extract)
	assert.Equal(t, []string{"needle"}, req.Match)
	assert.Equal(t, "user.name", req.JSONPath["name"])
	assert.Equal(t, []string{"div.user"}, req.CSS)
	assert.Equal(t, "schemas/user.json", req.Schema)
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeFile(t, "hitch.json", `{
		"defaults": {"followRedirects": false},
		"requests": {
			"home": {"url": "https://example.com", "method": "HEAD"}
		}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.FollowRedirects)
	assert.False(t, *cfg.Defaults.FollowRedirects)
	assert.Equal(t, "HEAD", cfg.Requests["home"].Method)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")

	path := writeFile(t, "broken.json", `{"requests": `)
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config file")
}

func TestProcessEnvironment(t *testing.T) {
	vars := map[string]string{"host": "example.com", "id": "7"}

	assert.Equal(t, "https://example.com/items/7", ProcessEnvironment("https://{{host}}/items/{{id}}", vars))
	assert.Equal(t, "{{unknown}}", ProcessEnvironment("{{unknown}}", vars))
	assert.Equal(t, "plain", ProcessEnvironment("plain", nil))
}

func TestResolveURL(t *testing.T) {
	env := Environment{
		BaseURL: "https://api.example.com/",
		Vars:    map[string]string{"id": "3"},
	}

	tests := []struct {
		name string
		url  string
		env  Environment
		want string
	}{
		{"relative", "/users/{{id}}", env, "https://api.example.com/users/3"},
		{"relative without slash", "users", env, "https://api.example.com/users"},
		{"absolute", "http://other.example.com/x", env, "http://other.example.com/x"},
		{"empty url", "", env, "https://api.example.com/"},
		{"no environment", "https://example.com/a", Environment{}, "https://example.com/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.url, tt.env))
		})
	}
}

func TestSortedParams(t *testing.T) {
	req := Request{Params: map[string]string{"b": "2", "a": "{{id}}", "c": "x"}}

	got := req.SortedParams(map[string]string{"id": "9"})
	assert.Equal(t, [][2]string{{"a", "9"}, {"b", "2"}, {"c", "x"}}, got)
	assert.Empty(t, Request{}.SortedParams(nil))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("conf", "schema.json"), ResolvePath(filepath.Join("conf", "hitch.yaml"), "schema.json"))
	assert.Equal(t, "/abs/schema.json", ResolvePath("conf/hitch.yaml", "/abs/schema.json"))
	assert.Equal(t, "", ResolvePath("conf/hitch.yaml", ""))
}
