package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/blogfeed/internal/common"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func testConfig() *Config {
	return &Config{
		Environment:    "testing",
		Version:        "test",
		RequestTimeout: 10 * time.Second,
	}
}

func newTestApplication(t *testing.T) *application {
	db := common.TestDB("file://../../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return newApplication(testConfig(), logger, db, prometheus.NewRegistry())
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var env envelope
	if len(responseBody) > 0 {
		require.NoError(t, json.Unmarshal(responseBody, &env), string(responseBody))
	}

	return res.StatusCode, res.Header, env
}

func (ts *testServer) do(t *testing.T, method, path string, token string, data any) (int, http.Header, envelope) {
	var body io.Reader
	if data != nil {
		jsonPayload, err := json.Marshal(data)
		require.NoError(t, err)
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)

	return readResponse(t, res)
}

func (ts *testServer) post(t *testing.T, path, token string, data any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, data)
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

// registerAndLogin creates a user through the API and returns its access token.
func (ts *testServer) registerAndLogin(t *testing.T, username string) string {
	status, _, _ := ts.post(t, "/v1/users/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Passw0rd!long",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _, body := ts.post(t, "/v1/users/login", "", map[string]string{
		"username": username,
		"password": "Passw0rd!long",
	})
	require.Equal(t, http.StatusOK, status)

	token, ok := body["token"].(map[string]any)
	require.True(t, ok)

	return token["access_token"].(string)
}

// number reads a JSON number at key out of a decoded object.
func number(t *testing.T, v any, key string) int {
	t.Helper()

	obj, ok := v.(map[string]any)
	require.True(t, ok, "expected an object, got %T", v)

	n, ok := obj[key].(float64)
	require.True(t, ok, "expected %s to be a number, got %T", key, obj[key])

	return int(n)
}
