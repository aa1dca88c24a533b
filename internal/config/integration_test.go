package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/nutriscan/internal/logging"
)

func TestGlobalConfig(t *testing.T) {
	isolate(t)

	cfg := GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, FormatTable, cfg.Output.DefaultFormat)
	assert.Same(t, cfg, GetGlobalConfig())

	ResetGlobalConfigForTest()
	assert.NotSame(t, cfg, GetGlobalConfig())

	custom := Default()
	custom.Output.DefaultFormat = FormatJSON
	custom.Output.Precision = 3
	SetGlobalConfig(custom)
	assert.Equal(t, FormatJSON, GetDefaultOutputFormat())
	assert.Equal(t, 3, GetOutputPrecision())
}

func TestGetConfigDir(t *testing.T) {
	home := isolate(t)
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)
	assert.Equal(t, filepath.Join(home, "config.yaml"), DefaultConfigPath())

	logPath, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "nutriscan.log"), logPath)
}

func TestEnsureLogDir(t *testing.T) {
	home := isolate(t)
	cfg := Default()
	cfg.Logging.File = filepath.Join(home, "logs", "deep", "n.log")
	SetGlobalConfig(cfg)

	require.NoError(t, EnsureLogDir())
	info, err := os.Stat(filepath.Dir(cfg.Logging.File))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	SetGlobalConfig(Default())
	assert.NoError(t, EnsureLogDir())
}

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "console"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/tmp/n.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/tmp/n.log", got.File)
}

func TestGetLoggingConfig(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Logging.Level = "error"
	SetGlobalConfig(cfg)

	lc := GetLoggingConfig()
	lc.Level = "debug"
	assert.Equal(t, "error", GetGlobalConfig().Logging.Level)
}
