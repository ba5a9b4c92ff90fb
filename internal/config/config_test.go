package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.HTTP.ReadTimeout)
	assert.Empty(t, cfg.HTTP.ProxyHost)
	assert.Zero(t, cfg.HTTP.ProxyPort)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, AuthTypeNone, cfg.EndpointConfig.AuthType)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
http:
  read_timeout: 3s
  proxy_host: proxy.internal
  proxy_port: 3128
  user_agent: quotes-bot/2.0
  default_headers:
    X-Tenant: acme
  log_bodies: true
logging:
  level: debug
  format: json
endpoint:
  base_url: https://api.example.com
  auth_type: bearer
  auth_config:
    token: secret
openapi_file: api.yaml
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "proxy.internal", cfg.HTTP.ProxyHost)
	assert.Equal(t, 3128, cfg.HTTP.ProxyPort)
	assert.Equal(t, "quotes-bot/2.0", cfg.HTTP.UserAgent)
	assert.True(t, cfg.HTTP.LogBodies)
	// viper lower-cases map keys
	assert.Equal(t, map[string]string{"x-tenant": "acme"}, cfg.HTTP.DefaultHeaders)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "https://api.example.com", cfg.EndpointConfig.BaseURL)
	assert.Equal(t, AuthTypeBearer, cfg.EndpointConfig.AuthType)
	assert.Equal(t, "secret", cfg.EndpointConfig.AuthConfig["token"])
	assert.Equal(t, "api.yaml", cfg.OpenAPIFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "http:\n  read_timeout: 3s\n")
	t.Setenv("RESTEXEC_HTTP_READ_TIMEOUT", "750ms")
	t.Setenv("RESTEXEC_ENDPOINT_BASE_URL", "https://env.example.com")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "https://env.example.com", cfg.EndpointConfig.BaseURL)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("RESTEXEC_HTTP_PROXY_PORT", "1111")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--http.proxy_port=8080",
		"--http.proxy_host=localhost",
		"--base-url=https://flag.example.com",
		"--openapi-file=spec.json",
		"--adjustments-file=adjust.yaml",
	}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.ProxyPort)
	assert.Equal(t, "localhost", cfg.HTTP.ProxyHost)
	assert.Equal(t, "https://flag.example.com", cfg.EndpointConfig.BaseURL)
	assert.Equal(t, "spec.json", cfg.OpenAPIFile)
	assert.Equal(t, "adjust.yaml", cfg.AdjustmentsFile)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "zero value", cfg: Config{}},
		{name: "negative timeout", cfg: Config{HTTP: HTTPConfig{ReadTimeout: -time.Second}}, wantErr: true},
		{name: "port out of range", cfg: Config{HTTP: HTTPConfig{ProxyPort: 70000}}, wantErr: true},
		{name: "negative port", cfg: Config{HTTP: HTTPConfig{ProxyPort: -1}}, wantErr: true},
		{name: "unknown auth type", cfg: Config{EndpointConfig: EndpointConfig{AuthType: "kerberos"}}, wantErr: true},
		{name: "api key auth", cfg: Config{EndpointConfig: EndpointConfig{AuthType: AuthTypeAPIKey}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetVersionInfo(t *testing.T) {
	assert.Contains(t, GetVersionInfo(), "restexec version dev")
}
