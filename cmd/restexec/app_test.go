package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brizzai/restexec/internal/config"
	"github.com/brizzai/restexec/internal/executor"
	"github.com/brizzai/restexec/internal/parser"
	"github.com/brizzai/restexec/internal/requester"
)

func TestParseHeaders(t *testing.T) {
	headers, err := parseHeaders([]string{"X-Api-Key: secret", "Accept:text/plain", "X-Empty:"})
	require.NoError(t, err)
	assert.Equal(t, executor.Headers{"X-Api-Key": "secret", "Accept": "text/plain", "X-Empty": ""}, headers)

	_, err = parseHeaders([]string{"no-colon"})
	assert.Error(t, err)
	_, err = parseHeaders([]string{": value"})
	assert.Error(t, err)
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"id=42", "filter=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": "42", "filter": "a=b"}, params)

	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
	_, err = parseParams([]string{"flag"})
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, []byte(`{"a":1}`)))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeJSON(&buf, []byte("plain text")))
	assert.Equal(t, "plain text\n", buf.String())

	buf.Reset()
	require.NoError(t, writeJSON(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestDescribeParameters(t *testing.T) {
	got := describeParameters([]parser.Parameter{
		{Name: "id", In: parser.InPath, Required: true},
		{Name: "limit", In: parser.InQuery},
	})
	assert.Equal(t, "id(path)* limit(query)", got)
	assert.Empty(t, describeParameters(nil))
}

func TestPrintOutcome(t *testing.T) {
	var buf bytes.Buffer
	err := printOutcome(&buf, executor.Outcome[json.RawMessage, json.RawMessage]{
		Kind:  executor.OutcomeSuccess,
		Value: json.RawMessage(`{"ok":true}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, buf.String())

	buf.Reset()
	err = printOutcome(&buf, executor.Outcome[json.RawMessage, json.RawMessage]{
		Kind:       executor.OutcomeStructuredFailure,
		Failure:    json.RawMessage(`{"error":"nope"}`),
		StatusCode: http.StatusForbidden,
	})
	assert.ErrorContains(t, err, "403")
	assert.JSONEq(t, `{"error":"nope"}`, buf.String())

	transportErr := errors.New("connection reset")
	err = printOutcome(&buf, executor.Outcome[json.RawMessage, json.RawMessage]{
		Kind: executor.OutcomeTransportFailure,
		Err:  transportErr,
	})
	assert.ErrorIs(t, err, transportErr)
}

func TestResolve(t *testing.T) {
	cfg := &config.Config{
		HTTP:           config.HTTPConfig{UserAgent: "resolve-test"},
		EndpointConfig: config.EndpointConfig{BaseURL: "https://api.example.com", AuthType: config.AuthTypeNone},
	}

	var exec *executor.Executor
	var r *requester.HTTPRequester
	var p parser.Parser
	require.NoError(t, resolve(cfg, &exec, &r, &p))

	assert.Equal(t, "resolve-test", exec.DefaultHeaders()[executor.HeaderUserAgent])
	assert.NotNil(t, r)
	assert.NotNil(t, p)
}

func TestResolve_InvalidExecutorConfig(t *testing.T) {
	var exec *executor.Executor
	err := resolve(&config.Config{HTTP: config.HTTPConfig{ReadTimeout: -1}}, &exec)
	assert.Error(t, err)
}

func TestCallCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		_, _ = w.Write([]byte(`{"symbol":"BTC"}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"call", "GET", server.URL + "/ticker", "-H", "X-Request-Id: abc"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.JSONEq(t, `{"symbol":"BTC"}`, out.String())
}
