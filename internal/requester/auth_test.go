package requester_test

import (
	"testing"

	"github.com/brizzai/restexec/internal/config"
	"github.com/brizzai/restexec/internal/executor"
	"github.com/brizzai/restexec/internal/requester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAuthManager_ApplyAuth(t *testing.T) {
	tests := []struct {
		name       string
		authType   config.AuthType
		authConfig map[string]string
		wantErr    bool
		want       executor.Headers
	}{
		{
			name:     "No auth",
			authType: config.AuthTypeNone,
			want:     executor.Headers{},
		},
		{
			name:     "Empty auth type",
			authType: "",
			want:     executor.Headers{},
		},
		{
			name:       "Basic auth",
			authType:   config.AuthTypeBasic,
			authConfig: map[string]string{"username": "user", "password": "pass"},
			want:       executor.Headers{"Authorization": "Basic dXNlcjpwYXNz"},
		},
		{
			name:       "Bearer token",
			authType:   config.AuthTypeBearer,
			authConfig: map[string]string{"token": "test-token"},
			want:       executor.Headers{"Authorization": "Bearer test-token"},
		},
		{
			name:       "Bearer without token",
			authType:   config.AuthTypeBearer,
			authConfig: map[string]string{},
			wantErr:    true,
		},
		{
			name:       "OAuth2 access token",
			authType:   config.AuthTypeOAuth2,
			authConfig: map[string]string{"token": "oauth-token"},
			want:       executor.Headers{"Authorization": "Bearer oauth-token"},
		},
		{
			name:       "API key default header",
			authType:   config.AuthTypeAPIKey,
			authConfig: map[string]string{"key": "secret"},
			want:       executor.Headers{"X-API-Key": "secret"},
		},
		{
			name:       "API key custom header",
			authType:   config.AuthTypeAPIKey,
			authConfig: map[string]string{"key": "secret", "header": "X-Custom-Key"},
			want:       executor.Headers{"X-Custom-Key": "secret"},
		},
		{
			name:     "Unsupported auth type",
			authType: config.AuthType("digest"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authManager := requester.NewHTTPAuthManager(&config.EndpointConfig{
				AuthType:   tt.authType,
				AuthConfig: tt.authConfig,
			})

			headers := executor.Headers{}
			err := authManager.ApplyAuth(headers)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, headers)
		})
	}
}
