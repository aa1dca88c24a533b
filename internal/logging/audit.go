package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AuditEntry records one command invocation.
type AuditEntry struct {
	Command    string
	TraceID    string
	Parameters map[string]string
	Success    bool
	Error      string
	PetCount   int
	DurationMS int64
}

// NewAuditEntry starts an entry for command.
func NewAuditEntry(command, traceID string) *AuditEntry {
	return &AuditEntry{Command: command, TraceID: traceID}
}

// WithParameters records the command parameters.
func (e *AuditEntry) WithParameters(params map[string]string) *AuditEntry {
	e.Parameters = params
	return e
}

// WithSuccess marks the entry successful for n pets.
func (e *AuditEntry) WithSuccess(n int) *AuditEntry {
	e.Success = true
	e.PetCount = n
	return e
}

// WithError marks the entry failed.
func (e *AuditEntry) WithError(msg string) *AuditEntry {
	e.Success = false
	e.Error = msg
	return e
}

// WithDuration sets the duration since start.
func (e *AuditEntry) WithDuration(start time.Time) *AuditEntry {
	e.DurationMS = time.Since(start).Milliseconds()
	return e
}

// AuditLoggerConfig configures the audit log.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
}

// AuditLogger writes AuditEntry records as JSON lines. A disabled logger is a no-op.
type AuditLogger struct {
	mu      sync.Mutex
	enabled bool
	logger  zerolog.Logger
	closer  io.Closer
}

// NewAuditLogger opens the audit log. Failures to open the file disable auditing.
func NewAuditLogger(cfg AuditLoggerConfig) *AuditLogger {
	if !cfg.Enabled {
		return &AuditLogger{}
	}
	var w io.Writer = os.Stderr
	var closer io.Closer
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return &AuditLogger{}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return &AuditLogger{}
		}
		w, closer = f, f
	}
	return newAuditLogger(w, closer)
}

func newAuditLogger(w io.Writer, closer io.Closer) *AuditLogger {
	return &AuditLogger{
		enabled: true,
		logger:  zerolog.New(w).With().Timestamp().Str("log_type", "audit").Logger(),
		closer:  closer,
	}
}

// Enabled reports whether entries are written.
func (a *AuditLogger) Enabled() bool {
	return a != nil && a.enabled
}

// Log writes entry.
func (a *AuditLogger) Log(_ context.Context, entry AuditEntry) {
	if !a.Enabled() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	ev := a.logger.Info().
		Str("command", entry.Command).
		Str(FieldTraceID, entry.TraceID).
		Bool("success", entry.Success).
		Int("pet_count", entry.PetCount).
		Int64("duration_ms", entry.DurationMS)
	if len(entry.Parameters) > 0 {
		d := zerolog.Dict()
		for k, v := range entry.Parameters {
			d.Str(k, v)
		}
		ev = ev.Dict("parameters", d)
	}
	if entry.Error != "" {
		ev = ev.Str("error", entry.Error)
	}
	ev.Msg("audit")
}

// Close closes the audit file.
func (a *AuditLogger) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	a.enabled = false
	return err
}

type auditKey struct{}

// ContextWithAuditLogger attaches a to ctx.
func ContextWithAuditLogger(ctx context.Context, a *AuditLogger) context.Context {
	return context.WithValue(ctx, auditKey{}, a)
}

// AuditLoggerFromContext returns the audit logger in ctx or a disabled one.
func AuditLoggerFromContext(ctx context.Context) *AuditLogger {
	if ctx != nil {
		if a, ok := ctx.Value(auditKey{}).(*AuditLogger); ok && a != nil {
			return a
		}
	}
	return &AuditLogger{}
}
