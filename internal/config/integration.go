package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// GlobalConfig holds the global configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects GlobalConfig

// InitGlobalConfig initializes the global configuration from New if unset.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if GlobalConfig != nil {
		return
	}
	GlobalConfig = New()
}

// SetGlobalConfig replaces the global configuration (e.g. after --config).
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	GlobalConfig = cfg
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetOutputPrecision returns the configured output precision.
func GetOutputPrecision() int {
	return GetGlobalConfig().Output.Precision
}

// GetConfigDir returns the nutriscan configuration directory:
// $NUTRISCAN_HOME, else ~/.nutriscan.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".nutriscan"), nil
}

// DefaultConfigPath returns $NUTRISCAN_CONFIG, else config.yaml in GetConfigDir.
// When no home directory can be found the path is relative to the working directory.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := GetConfigDir()
	if err != nil {
		return defaultConfigFileName
	}
	return filepath.Join(dir, defaultConfigFileName)
}

// DefaultLogPath returns logs/nutriscan.log under the config directory.
func DefaultLogPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "nutriscan.log"), nil
}

// EnsureLogDir creates the parent directory of the configured log file, if any.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, configDirPerm); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
