package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/brizzai/restexec/internal/config"
	"github.com/brizzai/restexec/internal/logger"
)

func main() {
	Execute()
}

var (
	configFile string
	appConfig  *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "restexec",
	Short: "Run JSON HTTP calls and OpenAPI routes from the command line",
	Long: `restexec sends blocking HTTP requests that exchange JSON.
It can run a single call against any URL, or load an OpenAPI/Swagger
document and invoke its operations by name against a configured endpoint.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (default ./config.yaml or /etc/restexec/config.yaml)")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	config.InitFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(callCmd, routesCmd, invokeCmd)
}

// setup loads the configuration and the logger before any command runs
func setup(cmd *cobra.Command, args []string) error {
	if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
		pterm.Info.Println(config.GetVersionInfo())
		os.Exit(0)
	}

	cfg, err := config.Load(configFile, cmd.Root().PersistentFlags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitLogger(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	appConfig = cfg
	return nil
}
