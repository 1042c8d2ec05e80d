package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
}

// Logger wraps zerolog and carries per-request fields through the context.
type Logger struct {
	base      *zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	base := zerolog.New(resolveOutput(opts.Output)).
		Level(opts.Level).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger()

	return &Logger{base: &base, warnStack: opts.WarnStack}
}

// resolveOutput honors LOG_FORMAT=console for local development; everything
// else emits json to the given writer (stdout by default).
func resolveOutput(out io.Writer) io.Writer {
	if out == nil {
		out = os.Stdout
	}
	if os.Getenv("LOG_FORMAT") == "console" {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return out
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) fromCtx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return l.base
}

// WithFields returns a context whose logger carries the extra fields.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	builder := l.fromCtx(ctx).With()
	for k, v := range fields {
		builder = builder.Interface(k, v)
	}
	entry := builder.Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.WithFields(ctx, map[string]any{key: value})
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

func (l *Logger) WithRestaurantID(ctx context.Context, restaurantID string) context.Context {
	return l.WithField(ctx, "restaurant_id", restaurantID)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.fromCtx(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.fromCtx(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.fromCtx(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.fromCtx(ctx).Error().
		Err(err).
		Str("stack", stackTrace()).
		Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
