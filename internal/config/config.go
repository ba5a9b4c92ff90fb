package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("restexec version %s, commit %s, built at %s", version, commit, date)
}

const envPrefix = "RESTEXEC"

type Config struct {
	HTTP            HTTPConfig     `mapstructure:"http"`
	Logging         LoggingConfig  `mapstructure:"logging"`
	EndpointConfig  EndpointConfig `mapstructure:"endpoint"`
	OpenAPIFile     string         `mapstructure:"openapi_file"`
	AdjustmentsFile string         `mapstructure:"adjustments_file"`
}

// HTTPConfig configures the request executor
type HTTPConfig struct {
	ReadTimeout    time.Duration     `mapstructure:"read_timeout"`
	ProxyHost      string            `mapstructure:"proxy_host"`
	ProxyPort      int               `mapstructure:"proxy_port"`
	UserAgent      string            `mapstructure:"user_agent"`
	DefaultHeaders map[string]string `mapstructure:"default_headers"`
	LogBodies      bool              `mapstructure:"log_bodies"`
}

// AuthType represents the type of authentication to use
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBasic  AuthType = "basic"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeOAuth2 AuthType = "oauth2"
)

// Valid reports whether t is a known auth type. Empty means none.
func (t AuthType) Valid() bool {
	switch t {
	case "", AuthTypeNone, AuthTypeBasic, AuthTypeBearer, AuthTypeAPIKey, AuthTypeOAuth2:
		return true
	}
	return false
}

// EndpointConfig describes the remote API that routes are resolved against
type EndpointConfig struct {
	BaseURL    string            `json:"base_url" mapstructure:"base_url"`
	AuthType   AuthType          `json:"auth_type" mapstructure:"auth_type"`
	AuthConfig map[string]string `json:"auth_config" mapstructure:"auth_config"`
	Headers    map[string]string `json:"headers" mapstructure:"headers"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// InitFlags registers the flags that may override configuration keys
func InitFlags(fs *pflag.FlagSet) {
	fs.Duration("http.read_timeout", 0, "Read timeout for HTTP responses (0 disables it)")
	fs.String("http.proxy_host", "", "HTTP proxy host")
	fs.Int("http.proxy_port", 0, "HTTP proxy port")
	fs.String("logging.level", "info", "Log level (debug|info|warn|error)")
	fs.String("openapi-file", "", "Path to the OpenAPI/Swagger document")
	fs.String("adjustments-file", "", "Path to the route adjustments file")
	fs.String("base-url", "", "Base URL of the remote API")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.read_timeout", time.Duration(0))
	v.SetDefault("http.proxy_host", "")
	v.SetDefault("http.proxy_port", 0)
	v.SetDefault("http.user_agent", "")
	v.SetDefault("http.log_bodies", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("endpoint.base_url", "")
	v.SetDefault("endpoint.auth_type", string(AuthTypeNone))
	v.SetDefault("openapi_file", "")
	v.SetDefault("adjustments_file", "")
}

// Load reads configuration from an optional file, the environment and fs.
// An explicit configFile must exist; otherwise config.yaml is looked up in
// the working directory and /etc/restexec and may be missing.
func Load(configFile string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/restexec")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Dashed flag names do not match the mapstructure keys
	if openAPIFile := v.GetString("openapi-file"); openAPIFile != "" {
		config.OpenAPIFile = openAPIFile
	}
	if adjustmentsFile := v.GetString("adjustments-file"); adjustmentsFile != "" {
		config.AdjustmentsFile = adjustmentsFile
	}
	if baseURL := v.GetString("base-url"); baseURL != "" {
		config.EndpointConfig.BaseURL = baseURL
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that viper cannot type-check
func (c *Config) Validate() error {
	if c.HTTP.ReadTimeout < 0 {
		return fmt.Errorf("http.read_timeout must not be negative, got %s", c.HTTP.ReadTimeout)
	}
	if c.HTTP.ProxyPort < 0 || c.HTTP.ProxyPort > 65535 {
		return fmt.Errorf("http.proxy_port must be between 1 and 65535, got %d", c.HTTP.ProxyPort)
	}
	if !c.EndpointConfig.AuthType.Valid() {
		return fmt.Errorf("unsupported endpoint.auth_type: %s", c.EndpointConfig.AuthType)
	}
	return nil
}
