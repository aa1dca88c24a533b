package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the nutriscan CLI.
// It loads configuration, wires up logging, tracing and audit logging, and
// registers the nutrition subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
	)

	cmd := &cobra.Command{
		Use:           "nutriscan",
		Short:         "Pet nutrition requirements, food compatibility and diet balance",
		Long:          "nutriscan: Calculate daily nutritional requirements for dogs and cats, score foods against them, and review feeding balance",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $NUTRISCAN_CONFIG or ~/.nutriscan/config.yaml)")
	cmd.AddCommand(
		NewRequirementsCmd(), NewAssessCmd(), NewBalanceCmd(), NewCompareCmd(),
		NewReportCmd(), NewDashboardCmd(), newConfigCmd(),
	)

	return cmd
}

// loadConfig reads an explicit --config strictly; otherwise the default
// location is read leniently.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

const rootCmdExample = `  # Daily requirements for every pet in a household file
  nutriscan requirements --household household.yaml

  # Requirements for an ad-hoc pet
  nutriscan requirements --species cat --weight 9.9 --weight-unit lb

  # Score every food against Rex's requirements
  nutriscan assess --household household.yaml --pet Rex

  # Balance of Rex's last 14 days of feedings
  nutriscan balance --household household.yaml --pet Rex --window 14

  # Rank two foods for Miso
  nutriscan compare --household household.yaml --pet Miso kibble wet-salmon

  # Full report as JSON
  nutriscan report --household household.yaml --output json

  # Interactive dashboard
  nutriscan dashboard --household household.yaml

  # Initialize configuration
  nutriscan config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
