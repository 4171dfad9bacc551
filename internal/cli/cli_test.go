package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/hitch/internal/output"
)

const page = `<html><head><title>Items</title></head><body>
<ul><li class="item">id=2</li><li class="item">id=44</li><li class="item">id=666</li></ul>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": %q, "age": 36}`, r.URL.Query().Get("name"))
	})
	mux.HandleFunc("/form", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		fmt.Fprintf(w, "%s %s", r.Method, r.PostForm.Encode())
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGetWithInspections(t *testing.T) {
	server := newTestServer(t)

	out, _, err := runCLI(t, "get", server.URL+"/page",
		"--extract", `/id=(\d+)/`,
		"--match", "item",
		"--match", "/ID=\\d+/i",
		"--css", "li.item",
		"--xpath", "//title",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "▶ REQUEST: GET "+server.URL+"/page")
	assert.Contains(t, out, "◀ RESPONSE: 200")
	assert.Contains(t, out, "match(es)\n    id=2\n    id=44\n    id=666\n")
	assert.Contains(t, out, "Match item (literal): 3")
	assert.Contains(t, out, "Match /ID=\\d+/i (pattern): 3")
	assert.Contains(t, out, "CSS li.item: 3 node(s)")
	assert.Contains(t, out, "XPath //title: 1 node(s)\n    Items\n")
	assert.NotContains(t, out, "Body:")
}

func TestGetJSONOutput(t *testing.T) {
	server := newTestServer(t)

	out, _, err := runCLI(t, "get", server.URL+"/user", "-p", "name=Ada", "--json-path", "name=$.name", "--format", "json")
	require.NoError(t, err)

	// Request and response are two JSON documents
	dec := json.NewDecoder(strings.NewReader(out))
	var req output.RequestData
	require.NoError(t, dec.Decode(&req))
	assert.Equal(t, server.URL+"/user?name=Ada", req.URL)

	var resp output.ResponseData
	require.NoError(t, dec.Decode(&resp))
	require.NotNil(t, resp.StatusCode)
	assert.Equal(t, 200, *resp.StatusCode)
	require.NotNil(t, resp.Report)
	assert.Equal(t, "Ada", resp.Report.JSONPath["name"])
}

func TestPostForm(t *testing.T) {
	server := newTestServer(t)

	out, _, err := runCLI(t, "post", server.URL+"/form", "-p", "a=1", "-p", "b=two words", "--conn", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "Form: a=1&b=two+words")
	assert.Contains(t, out, "POST a=1&b=two+words")
}

func TestSchemaFailureExitsNonZero(t *testing.T) {
	server := newTestServer(t)
	schema := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{"type":"object","properties":{"age":{"type":"string"}}}`), 0644))

	out, _, err := runCLI(t, "get", server.URL+"/user", "--schema", schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inspection failed")
	assert.Contains(t, out, "Schema: invalid")
}

func TestRequestFailure(t *testing.T) {
	server := newTestServer(t)
	url := server.URL
	server.Close()

	out, stderr, err := runCLI(t, "get", url+"/page", "--timeout", "2", "--log-level", "warn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, out, "ERROR:")
	assert.Contains(t, stderr, "request failed")
}

func TestRepeatSummary(t *testing.T) {
	server := newTestServer(t)

	out, _, err := runCLI(t, "head", server.URL+"/page", "--repeat", "3")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "◀ RESPONSE"))
	assert.Contains(t, out, "Summary:")
	assert.Contains(t, out, "status 200")
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid url", []string{"get", "not a url"}, "invalid URL"},
		{"bad param", []string{"get", "http://example.com", "-p", "novalue"}, "expected key=value"},
		{"bad repeat", []string{"get", "http://example.com", "--repeat", "0"}, "--repeat"},
		{"bad format", []string{"get", "http://example.com", "--format", "xml"}, "unknown output format"},
		{"missing schema", []string{"get", "http://example.com", "--schema", "/nonexistent/schema.json"}, "reading schema"},
		{"no url", []string{"get"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunConfig(t *testing.T) {
	server := newTestServer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.schema.json"), []byte(`{"required":["name"]}`), 0644))

	configPath := filepath.Join(dir, "hitch.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
defaults:
  timeoutSeconds: 5
environments:
  local:
    baseUrl: `+server.URL+`
    variables:
      who: Ada
requests:
  page:
    url: /page
    css:
      - li.item
  user:
    url: /user
    params:
      name: "{{who}}"
    jsonPath:
      name: $.name
    schema: user.schema.json
`), 0644))

	out, _, err := runCLI(t, "run", configPath, "--environment", "local")
	require.NoError(t, err)
	assert.Contains(t, out, "GET "+server.URL+"/page")
	assert.Contains(t, out, "GET "+server.URL+"/user?name=Ada")
	assert.Contains(t, out, "name = Ada")
	assert.Contains(t, out, "Schema: valid")

	out, _, err = runCLI(t, "run", configPath, "user", "--environment", "local")
	require.NoError(t, err)
	assert.NotContains(t, out, "/page")
}

func TestRunConfigErrors(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "hitch.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"requests": {"bad": {"method": "PUT"}}}`), 0644))

	_, _, err := runCLI(t, "run", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation errors")
	assert.Contains(t, err.Error(), "requests.bad.url")

	require.NoError(t, os.WriteFile(configPath, []byte(`{"requests": {"ok": {"url": "http://example.com"}}}`), 0644))
	_, _, err = runCLI(t, "run", configPath, "missing")
	assert.EqualError(t, err, "request not found: missing")

	_, _, err = runCLI(t, "run", configPath, "--environment", "prod")
	assert.EqualError(t, err, "environment not found: prod")
}

func TestRunReportsFailedRequests(t *testing.T) {
	server := newTestServer(t)
	url := server.URL
	server.Close()

	configPath := filepath.Join(t.TempDir(), "hitch.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("requests:\n  down:\n    url: "+url+"/page\n    timeoutSeconds: 2\n"), 0644))

	_, stderr, err := runCLI(t, "run", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 requests failed: down")
	assert.Contains(t, stderr, "down: request failed")
}

func TestParseNamedPaths(t *testing.T) {
	paths, err := parseNamedPaths([]string{"id=$.id", "$.name"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "$.id", "$.name": "$.name"}, paths)

	_, err = parseNamedPaths([]string{"=$.id"})
	assert.Error(t, err)
}

func TestRootHelp(t *testing.T) {
	out, _, err := runCLI(t)
	require.NoError(t, err)
	assert.Contains(t, out, "hitch")
	assert.Contains(t, out, "get")
	assert.Contains(t, out, "run")
}
