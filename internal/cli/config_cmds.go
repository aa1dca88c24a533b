package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.nutriscan/config.yaml (or $NUTRISCAN_CONFIG, or the --config path)
with default values.`,
		Example: `  # Create configuration
  nutriscan config init

  # Create configuration, overwriting existing
  nutriscan config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetGlobalConfig().ConfigPath()

			if !force {
				if _, err := os.Stat(path); err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			cfg := config.Default()
			cfg.SetConfigPath(path)
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Configuration initialized successfully\n")
			cmd.Printf("Configuration file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Prints the configuration after the config file and NUTRISCAN_* environment overrides are applied.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			out, err := cfg.YAML()
			if err != nil {
				return fmt.Errorf("rendering configuration: %w", err)
			}
			cmd.Printf("# %s\n%s", cfg.ConfigPath(), out)
			return nil
		},
	}
}

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Parses the configuration file strictly and checks every value: output
format and precision, log level and format, feeding window, energy density and
report concurrency.`,
		Example: `  # Validate current configuration
  nutriscan config validate

  # Validate and show detailed information
  nutriscan config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetGlobalConfig().ConfigPath()
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			cmd.Printf("Configuration is valid\n")
			if verbose {
				cmd.Printf("  File:           %s\n", path)
				cmd.Printf("  Output format:  %s (precision %d)\n", cfg.Output.DefaultFormat, cfg.Output.Precision)
				cmd.Printf("  Log level:      %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
				cmd.Printf("  Feeding window: %d days\n", cfg.Nutrition.WindowDays)
				cmd.Printf("  Energy density: %g kcal/g\n", cfg.Nutrition.EnergyDensity)
				cmd.Printf("  Concurrency:    %d\n", cfg.Report.Concurrency)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}
