package main

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/brizzai/restexec/internal/requester"
)

var (
	invokeParams []string
	invokeBody   string
)

var invokeCmd = &cobra.Command{
	Use:   "invoke ROUTE",
	Short: "Invoke a named route of an OpenAPI document",
	Example: `  restexec invoke getOrder --openapi-file api.yaml --base-url https://api.example.com -p id=42
  restexec invoke createOrder --openapi-file api.yaml --body '{"qty":1}'`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().StringArrayVarP(&invokeParams, "param", "p", nil, "Route parameter as key=value (repeatable)")
	invokeCmd.Flags().StringVar(&invokeBody, "body", "", "JSON request body")
}

func runInvoke(cmd *cobra.Command, args []string) error {
	if appConfig.EndpointConfig.BaseURL == "" {
		return fmt.Errorf("a base URL is required, pass --base-url or set endpoint.base_url")
	}

	p, err := loadRoutes(appConfig)
	if err != nil {
		return err
	}
	route, ok := p.FindRoute(args[0])
	if !ok {
		return fmt.Errorf("route %q not found, run 'restexec routes' to list them", args[0])
	}

	params, err := parseParams(invokeParams)
	if err != nil {
		return err
	}
	if invokeBody != "" {
		if !json.Valid([]byte(invokeBody)) {
			return fmt.Errorf("--body is not valid JSON")
		}
		params[requester.BodyParam] = json.RawMessage(invokeBody)
	}

	var r *requester.HTTPRequester
	if err := resolve(appConfig, &r); err != nil {
		return fmt.Errorf("failed to build requester: %w", err)
	}
	routeExecutor, err := r.BuildRouteExecutor(route.RouteConfig)
	if err != nil {
		return err
	}

	resp, err := routeExecutor(cmd.Context(), params)
	if err != nil {
		return err
	}
	if !resp.OK() {
		pterm.Warning.Printfln("HTTP status %d", resp.StatusCode)
		if err := writeJSON(cmd.OutOrStdout(), resp.Body); err != nil {
			return err
		}
		return fmt.Errorf("route %s failed with status %d", route.Name, resp.StatusCode)
	}
	return writeJSON(cmd.OutOrStdout(), resp.Body)
}
