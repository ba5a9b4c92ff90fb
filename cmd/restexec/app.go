package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/fx"

	"github.com/brizzai/restexec/internal/config"
	"github.com/brizzai/restexec/internal/executor"
	"github.com/brizzai/restexec/internal/parser"
	"github.com/brizzai/restexec/internal/requester"
)

// resolve builds the dependency graph for cfg and fills targets
func resolve(cfg *config.Config, targets ...interface{}) error {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func(c *config.Config) *config.EndpointConfig {
			return &c.EndpointConfig
		}),
		executor.Module,
		requester.Module,
		parser.Module,
		fx.Populate(targets...),
	)
	return app.Err()
}

// parseHeaders accepts curl style "Name: value" entries
func parseHeaders(entries []string) (executor.Headers, error) {
	headers := make(executor.Headers, len(entries))
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", entry)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// parseParams accepts key=value entries
func parseParams(entries []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", entry)
		}
		params[key] = value
	}
	return params, nil
}

// writeJSON pretty prints data, falling back to the raw text
func writeJSON(w io.Writer, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		buf.Reset()
		buf.Write(data)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
