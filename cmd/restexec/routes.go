package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/brizzai/restexec/internal/config"
	"github.com/brizzai/restexec/internal/parser"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes of an OpenAPI document",
	Args:  cobra.NoArgs,
	RunE:  runRoutes,
}

// loadRoutes parses the configured OpenAPI document
func loadRoutes(cfg *config.Config) (parser.Parser, error) {
	if cfg.OpenAPIFile == "" {
		return nil, fmt.Errorf("an OpenAPI file is required, pass --openapi-file or set RESTEXEC_OPENAPI_FILE")
	}

	var p parser.Parser
	if err := resolve(cfg, &p); err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	if err := p.Init(cfg.OpenAPIFile, cfg.AdjustmentsFile); err != nil {
		return nil, err
	}
	return p, nil
}

func runRoutes(cmd *cobra.Command, args []string) error {
	p, err := loadRoutes(appConfig)
	if err != nil {
		return err
	}

	routes := p.GetRoutes()
	data := pterm.TableData{{"Name", "Method", "Path", "Parameters", "Description"}}
	for _, route := range routes {
		data = append(data, []string{
			route.Name,
			route.RouteConfig.Method,
			route.RouteConfig.Path,
			describeParameters(route.Parameters),
			route.RouteConfig.Description,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("%s routes", pterm.LightGreen(len(routes)))
	return nil
}

// describeParameters renders parameters as name(in), marking required ones with *
func describeParameters(params []parser.Parameter) string {
	parts := make([]string, 0, len(params))
	for _, param := range params {
		part := fmt.Sprintf("%s(%s)", param.Name, param.In)
		if param.Required {
			part += "*"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
