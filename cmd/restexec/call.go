package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/brizzai/restexec/internal/executor"
)

var (
	callHeaders     []string
	callData        string
	callContentType string
)

var callCmd = &cobra.Command{
	Use:   "call METHOD URL",
	Short: "Send one request and print the JSON response",
	Example: `  restexec call GET https://api.example.com/ticker
  restexec call POST https://api.example.com/orders -d '{"qty":1}' --content-type application/json`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringArrayVarP(&callHeaders, "header", "H", nil, "Request header as 'Name: value' (repeatable)")
	callCmd.Flags().StringVarP(&callData, "data", "d", "", "Request body")
	callCmd.Flags().StringVar(&callContentType, "content-type", "", "Content-Type of the request body")
}

func runCall(cmd *cobra.Command, args []string) error {
	method, err := executor.ParseMethod(args[0])
	if err != nil {
		return err
	}
	headers, err := parseHeaders(callHeaders)
	if err != nil {
		return err
	}

	var exec *executor.Executor
	if err := resolve(appConfig, &exec); err != nil {
		return fmt.Errorf("failed to build executor: %w", err)
	}

	out := executor.Run[json.RawMessage, json.RawMessage](cmd.Context(), exec, &executor.Request{
		Method:      method,
		URL:         args[1],
		Body:        callData,
		Headers:     headers,
		ContentType: callContentType,
	})
	return printOutcome(cmd.OutOrStdout(), out)
}

// printOutcome writes the JSON of a call and turns failures into errors
func printOutcome(w io.Writer, out executor.Outcome[json.RawMessage, json.RawMessage]) error {
	switch out.Kind {
	case executor.OutcomeSuccess:
		return writeJSON(w, out.Value)
	case executor.OutcomeStructuredFailure:
		pterm.Warning.Printfln("HTTP status %d", out.StatusCode)
		if err := writeJSON(w, out.Failure); err != nil {
			return err
		}
		return fmt.Errorf("request failed with status %d", out.StatusCode)
	default:
		return out.Err
	}
}
