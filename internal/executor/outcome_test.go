package executor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brizzai/restexec/internal/executor"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		method     executor.Method
		url        string
		respond    func(*http.Request) (*http.Response, error)
		wantKind   executor.OutcomeKind
		wantStatus int
		check      func(t *testing.T, out executor.Outcome[quote, apiError])
	}{
		{
			name:       "success",
			method:     executor.MethodGet,
			url:        "https://api.example.com/quote",
			respond:    jsonResponse(http.StatusOK, "application/json", `{"symbol":"BTC","price":2}`),
			wantKind:   executor.OutcomeSuccess,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, out executor.Outcome[quote, apiError]) {
				assert.True(t, out.OK())
				assert.NoError(t, out.Err)
				assert.Equal(t, quote{Symbol: "BTC", Price: 2}, out.Value)
			},
		},
		{
			name:       "structured failure",
			method:     executor.MethodPost,
			url:        "https://api.example.com/orders",
			respond:    jsonResponse(http.StatusUnprocessableEntity, "application/json", `{"code":"invalid","message":"qty must be positive"}`),
			wantKind:   executor.OutcomeStructuredFailure,
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, out executor.Outcome[quote, apiError]) {
				assert.False(t, out.OK())
				assert.Equal(t, apiError{Code: "invalid", Message: "qty must be positive"}, out.Failure)
				assert.Equal(t, quote{}, out.Value)
			},
		},
		{
			name:       "transport failure",
			method:     executor.MethodGet,
			url:        "https://api.example.com/quote",
			respond:    jsonResponse(http.StatusOK, "application/json", `not json`),
			wantKind:   executor.OutcomeTransportFailure,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, out executor.Outcome[quote, apiError]) {
				assert.ErrorIs(t, out.Err, executor.ErrDecode)
			},
		},
		{
			name:     "configuration failure",
			method:   executor.MethodGet,
			url:      "not a url",
			wantKind: executor.OutcomeConfigurationFailure,
			check: func(t *testing.T, out executor.Outcome[quote, apiError]) {
				assert.ErrorIs(t, out.Err, executor.ErrMalformedURL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			respond := tt.respond
			if respond == nil {
				respond = jsonResponse(http.StatusOK, "", "")
			}
			e := newExecutor(t, executor.Config{}, executor.WithDoer(&recordingDoer{respond: respond}))

			out := executor.Run[quote, apiError](context.Background(), e, &executor.Request{Method: tt.method, URL: tt.url})

			assert.Equal(t, tt.wantKind, out.Kind, out.Kind.String())
			assert.Equal(t, tt.wantStatus, out.StatusCode)
			tt.check(t, out)
		})
	}
}

func TestRun_RawMessage(t *testing.T) {
	e := newExecutor(t, executor.Config{}, executor.WithDoer(&recordingDoer{
		respond: jsonResponse(http.StatusNotFound, "application/json", `{"error":"missing"}`),
	}))

	out := executor.Run[json.RawMessage, json.RawMessage](context.Background(), e, &executor.Request{
		Method: executor.MethodGet,
		URL:    "https://api.example.com/missing",
	})

	require.Equal(t, executor.OutcomeStructuredFailure, out.Kind)
	assert.JSONEq(t, `{"error":"missing"}`, string(out.Failure))
	assert.Contains(t, out.Err.Error(), "404")
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "success", executor.OutcomeSuccess.String())
	assert.Equal(t, "structured_failure", executor.OutcomeStructuredFailure.String())
	assert.Equal(t, "transport_failure", executor.OutcomeTransportFailure.String())
	assert.Equal(t, "configuration_failure", executor.OutcomeConfigurationFailure.String())
	assert.Equal(t, "unknown", executor.OutcomeKind(42).String())
}
