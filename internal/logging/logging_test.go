package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNewLogger_JSONWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Format: FormatJSON}, &buf)

	ctx := ContextWithTraceID(context.Background(), "01HTESTTRACE")
	l.Debug().Ctx(ctx).Str("operation", "calculate").Msg("hello")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "hello", got["message"])
	assert.Equal(t, "calculate", got["operation"])
	assert.Equal(t, "01HTESTTRACE", got[FieldTraceID])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "warn"}, &buf)
	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())
	l.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Format: FormatConsole}, &buf)
	l.Info().Msg("readable")
	assert.Contains(t, buf.String(), "readable")
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
}

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "nutriscan.log")
		res := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})
		t.Cleanup(func() { _ = res.Close() })

		assert.True(t, res.UsingFile)
		assert.False(t, res.FallbackUsed)
		assert.Equal(t, path, res.FilePath)

		res.Logger.Info().Msg("to file")
		require.NoError(t, res.Close())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to file")
	})

	t.Run("missing file path falls back", func(t *testing.T) {
		res := NewLoggerWithPath(Config{Output: OutputFile})
		assert.False(t, res.UsingFile)
		assert.True(t, res.FallbackUsed)
		assert.NotEmpty(t, res.FallbackReason)
		assert.NoError(t, res.Close())
	})

	t.Run("unwritable path falls back", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
		res := NewLoggerWithPath(Config{Output: OutputFile, File: filepath.Join(blocker, "x.log")})
		assert.True(t, res.FallbackUsed)
		assert.False(t, res.UsingFile)
	})

	t.Run("stderr", func(t *testing.T) {
		res := NewLoggerWithPath(Config{})
		assert.False(t, res.UsingFile)
		assert.False(t, res.FallbackUsed)
	})
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := ComponentLogger(NewLogger(Config{Level: "info"}, &buf), "balance")
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), `"component":"balance"`)

	// No logger attached: disabled logger, no panic.
	FromContext(context.Background()).Info().Msg("ignored")
}

func TestTraceIDs(t *testing.T) {
	id := NewTraceID()
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err)

	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))
	generated := GetOrGenerateTraceID(ctx)
	assert.NotEmpty(t, generated)

	ctx = ContextWithTraceID(ctx, generated)
	assert.Equal(t, generated, GetOrGenerateTraceID(ctx))
	assert.Equal(t, generated, TraceIDFromContext(ctx))
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/n.log")
	PrintFallbackWarning(&buf, "permission denied")
	assert.Contains(t, buf.String(), "Logging to: /tmp/n.log")
	assert.Contains(t, buf.String(), "permission denied")
}
