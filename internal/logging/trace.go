package logging

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// FieldTraceID is the log field carrying the trace ID.
const FieldTraceID = "trace_id"

// NewTraceID returns a fresh ULID string.
func NewTraceID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ContextWithTraceID stores id in ctx.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// GetOrGenerateTraceID returns the trace ID in ctx or a new one.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}

// TraceIDHook adds trace_id to events logged with a context (Event.Ctx).
type TraceIDHook struct{}

// Run implements zerolog.Hook.
func (TraceIDHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if id := TraceIDFromContext(e.GetCtx()); id != "" {
		e.Str(FieldTraceID, id)
	}
}
