// Package logging provides the zerolog setup shared by every nutriscan component:
// construction from config, context propagation, trace IDs and the audit log.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output and format values accepted by Config.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"

	FormatJSON    = "json"
	FormatConsole = "console"
	FormatText    = "text"
)

// Config describes how a logger is built.
type Config struct {
	Level  string
	Format string
	Output string
	File   string
	Caller bool
}

// LogPathResult is the outcome of NewLoggerWithPath.
type LogPathResult struct {
	Logger         zerolog.Logger
	FilePath       string
	UsingFile      bool
	FallbackUsed   bool
	FallbackReason string

	file io.Closer
}

// Close releases the log file, if one was opened.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewLogger builds a logger writing to w. Invalid levels fall back to info.
func NewLogger(cfg Config, w io.Writer) zerolog.Logger {
	if cfg.Format == FormatConsole || cfg.Format == FormatText {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger().Hook(TraceIDHook{})
}

// NewLoggerWithPath builds a logger from cfg. When Output is "file" the file is
// opened in append mode; if that fails the logger falls back to stderr and the
// result says why.
func NewLoggerWithPath(cfg Config) LogPathResult {
	switch cfg.Output {
	case OutputFile:
		if cfg.File == "" {
			return LogPathResult{
				Logger:         NewLogger(cfg, os.Stderr),
				FallbackUsed:   true,
				FallbackReason: "no log file configured",
			}
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return fallback(cfg, err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fallback(cfg, err)
		}
		return LogPathResult{
			Logger:    NewLogger(cfg, f),
			FilePath:  cfg.File,
			UsingFile: true,
			file:      f,
		}
	case OutputStdout:
		return LogPathResult{Logger: NewLogger(cfg, os.Stdout)}
	default:
		return LogPathResult{Logger: NewLogger(cfg, os.Stderr)}
	}
}

func fallback(cfg Config, err error) LogPathResult {
	return LogPathResult{
		Logger:         NewLogger(cfg, os.Stderr),
		FallbackUsed:   true,
		FallbackReason: err.Error(),
	}
}

// PrintLogPathMessage tells the user where logs are going.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to: %s\n", path)
}

// PrintFallbackWarning reports that file logging could not be used.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: file logging unavailable (%s), logging to stderr\n", reason)
}

// FromContext returns the logger attached to ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ComponentLogger tags every event from l with the component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}
