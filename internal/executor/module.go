package executor

import (
	"github.com/brizzai/restexec/internal/config"
	"go.uber.org/fx"
)

// ConfigFromSettings converts the http section of the application config
func ConfigFromSettings(cfg config.HTTPConfig) Config {
	return Config{
		ReadTimeout: cfg.ReadTimeout,
		Proxy: Proxy{
			Host: cfg.ProxyHost,
			Port: cfg.ProxyPort,
		},
		UserAgent:      cfg.UserAgent,
		DefaultHeaders: Headers(cfg.DefaultHeaders),
		LogBodies:      cfg.LogBodies,
	}
}

func newFromAppConfig(cfg *config.Config) (*Executor, error) {
	return New(ConfigFromSettings(cfg.HTTP))
}

// Module provides the request executor
var Module = fx.Module("executor",
	fx.Provide(
		newFromAppConfig,
	),
)
