package http

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Defaults(t *testing.T) {
	req, err := NewRequest("http://www.example.com/")
	require.NoError(t, err)

	assert.Equal(t, "http://www.example.com/", req.URL())
	assert.True(t, req.FollowRedirects)
	assert.Equal(t, DefaultTimeoutSeconds, req.TimeoutSeconds)
	assert.False(t, req.UseConn)
	assert.Empty(t, req.Params())
}

func TestRequest_Timeout(t *testing.T) {
	tests := []struct {
		seconds  int
		expected time.Duration
	}{
		{3, 3 * time.Second},
		{0, 10 * time.Second},
		{-5, 10 * time.Second},
	}

	for _, tt := range tests {
		req, err := NewRequest("http://www.example.com/")
		require.NoError(t, err)
		req.TimeoutSeconds = tt.seconds
		assert.Equal(t, tt.expected, req.Timeout(), "TimeoutSeconds=%d", tt.seconds)
	}
}

func TestRequest_CallGetAppendsQuery(t *testing.T) {
	req, err := NewRequest("http://www.example.com/path")
	require.NoError(t, err)
	req.Param("var1", "value_1").Param("var2", "value 2")

	call, err := req.Call(MethodGet)
	require.NoError(t, err)

	assert.Equal(t, "http://www.example.com/path?var1=value_1&var2=value+2", call.URL)
	assert.Empty(t, call.Form)
	assert.True(t, call.FollowRedirects)
}

func TestRequest_CallKeepsExistingQuery(t *testing.T) {
	req, err := NewRequest("http://www.example.com/search?q=go")
	require.NoError(t, err)
	req.Param("page", "2")

	call, err := req.Call(MethodGet)
	require.NoError(t, err)
	assert.Equal(t, "http://www.example.com/search?q=go&page=2", call.URL)
}

func TestRequest_CallWithoutParams(t *testing.T) {
	req, err := NewRequest("http://www.example.com/")
	require.NoError(t, err)

	call, err := req.Call(MethodGet)
	require.NoError(t, err)
	assert.Equal(t, "http://www.example.com/", call.URL)
}

func TestRequest_CallPostEncodesForm(t *testing.T) {
	req, err := NewRequest("http://www.example.com/form")
	require.NoError(t, err)
	req.Param("name", "a&b").Param("n", "1")

	call, err := req.Call(MethodPost)
	require.NoError(t, err)

	assert.Equal(t, "http://www.example.com/form", call.URL)
	assert.Equal(t, "name=a%26b&n=1", call.Form)
}

func TestRequest_CallHeadNeverFollows(t *testing.T) {
	req, err := NewRequest("http://www.example.com/")
	require.NoError(t, err)
	req.FollowRedirects = true

	call, err := req.Call(MethodHead)
	require.NoError(t, err)
	assert.False(t, call.FollowRedirects)
}

func TestRequest_CallCarriesOptions(t *testing.T) {
	req, err := NewRequest("http://www.example.com/")
	require.NoError(t, err)
	req.Referer = "http://ref.example.com/"
	req.UserAgent = "hitch-test"
	req.TimeoutSeconds = 4
	req.FollowRedirects = false

	call, err := req.Call(MethodGet)
	require.NoError(t, err)
	assert.Equal(t, "http://ref.example.com/", call.Referer)
	assert.Equal(t, "hitch-test", call.UserAgent)
	assert.Equal(t, 4*time.Second, call.Timeout)
	assert.False(t, call.FollowRedirects)
}

func TestRequest_ParamOverwriteKeepsPosition(t *testing.T) {
	req, err := NewRequest("http://www.example.com/")
	require.NoError(t, err)
	req.Param("a", "1").Param("b", "2").Param("a", "3")

	assert.Equal(t, [][2]string{{"a", "3"}, {"b", "2"}}, req.Params())
}

func TestRequest_UnsupportedMethod(t *testing.T) {
	req, err := NewRequest("http://www.example.com/")
	require.NoError(t, err)

	_, err = req.Do(context.Background(), "PUT")

	var methodErr *UnsupportedMethodError
	require.True(t, errors.As(err, &methodErr))
	assert.Equal(t, "PUT", methodErr.Method)
}

func TestRequest_TransportUnavailable(t *testing.T) {
	client := NewClient(WithTransport(TransportConn, nil))

	req, err := client.NewRequest("http://www.example.com/")
	require.NoError(t, err)
	req.UseConn = true

	resp, err := req.Get(context.Background())
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrTransportUnavailable))

	var unavailable *TransportUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, TransportConn, unavailable.Kind)
}
