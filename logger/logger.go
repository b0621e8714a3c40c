// Package logger configures log/slog for the process and hands out
// context-scoped loggers. Components never hold a logger of their own; they
// call Get(ctx) at the point of logging so that subsystem names, muting and
// injected test loggers travel with the context.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Used for logging which part of the system is generating the log.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex protects concurrent calls to ConfigureLoggingWithOptions.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

const (
	mutedKey     contextKey = "mute"
	subsystemKey contextKey = "subsystem"
	loggerKey    contextKey = "logger"
	valuesKey    contextKey = "loggerValues"
)

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer

	// Handlers receive every record in addition to the primary text or JSON
	// handler (for example the OpenTelemetry log bridge).
	Handlers []slog.Handler
}

// ConfigureLoggingWithOptions configures logging for the application.
// It returns the default logger.
// This function is thread-safe but modifies global state, so concurrent calls
// will be serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var handler slog.Handler

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	if len(opts.Handlers) > 0 {
		handler = newTeeHandler(append([]slog.Handler{handler}, opts.Handlers...)...)
	}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	// Third party packages may still use the old log package.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// WithMuted adds a muted flag to the context. When muted is true, all logging
// operations on this context will be suppressed.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, mutedKey, muted)
}

func isMuted(ctx context.Context) bool {
	muted, ok := ctx.Value(mutedKey).(bool)

	return ok && muted
}

// WithSubsystem adds a subsystem to the context. If the subsystem is not provided, the default subsystem
// will be used. The default subsystem is set by ConfigureLoggingWithOptions.
func WithSubsystem(ctx context.Context, subsystem string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, subsystemKey, subsystem)
}

// GetSubsystem returns the subsystem from the context. If the
// subsystem is not provided, the default subsystem will be used.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	if val, ok := ctx.Value(subsystemKey).(string); ok {
		return val
	}

	if val, ok := subsystem.Load().(string); ok {
		return val
	}

	return ""
}

// WithLogger pins a specific logger to the context. Get returns it (plus the
// usual subsystem and values) instead of slog.Default. Tests use this to route
// component logs into the test output.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, loggerKey, l)
}

// With returns a new context with the given values added.
// The values are added to the logger automatically.
func With(ctx context.Context, values ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(values) == 0 {
		return ctx
	}

	existing := getValues(ctx)
	vals := make([]any, 0, len(existing)+len(values))
	vals = append(vals, existing...)
	vals = append(vals, values...)

	return context.WithValue(ctx, valuesKey, vals)
}

func getValues(ctx context.Context) []any {
	vals, _ := ctx.Value(valuesKey).([]any)

	return vals
}

// nullHandler discards everything; it backs muted contexts.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler          { return n }
func (n *nullHandler) WithGroup(_ string) slog.Handler               { return n }

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals

// Get returns a logger for the first non-nil context given (or
// context.Background). The logger carries the subsystem and any values added
// with With.
//
//nolint:contextcheck
func Get(ctx ...context.Context) *slog.Logger {
	var realCtx context.Context

	for _, c := range ctx {
		if c != nil {
			realCtx = c

			break
		}
	}

	if realCtx == nil {
		realCtx = context.Background()
	}

	if isMuted(realCtx) {
		return nullLogger
	}

	base, ok := realCtx.Value(loggerKey).(*slog.Logger)
	if !ok || base == nil {
		base = slog.Default()
	}

	logger := base.With("subsystem", GetSubsystem(realCtx))

	if vals := getValues(realCtx); len(vals) > 0 {
		logger = logger.With(vals...)
	}

	return logger
}
