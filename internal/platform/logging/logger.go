package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// ParseLevel maps a config string onto a Level, defaulting to info.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SlogLevel maps a Level onto its slog equivalent for handlers that speak
// the standard library's leveling.
func SlogLevel(level Level) slog.Level {
	switch {
	case level <= LevelDebug:
		return slog.LevelDebug
	case level == LevelInfo:
		return slog.LevelInfo
	case level == LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Logger wraps zap with loosely typed key-value pairs so call sites stay
// compact. The package default is a nop logger; services receive theirs
// through constructors.
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// NewJSON builds a production JSON logger writing to stdout.
func NewJSON(level Level) *Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		level,
	)

	return FromZap(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{
		zap:   z,
		sugar: z.Sugar(),
	}
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

// With returns a child logger carrying the given key-value context.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return NewNop()
	}
	return &Logger{
		zap:   l.zap,
		sugar: l.sugar.With(args...),
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logger().sugar.Debugw(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.logger().sugar.Infow(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logger().sugar.Warnw(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logger().sugar.Errorw(msg, args...)
}

// InfoContext logs with trace/span IDs appended when the context carries a
// valid span.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger().sugar.Infow(msg, appendTraceArgs(ctx, args)...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger().sugar.Warnw(msg, appendTraceArgs(ctx, args)...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger().sugar.Errorw(msg, appendTraceArgs(ctx, args)...)
}

// Sync flushes buffered entries; safe to call on shutdown.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) logger() *Logger {
	if l == nil {
		return Default()
	}
	return l
}

func appendTraceArgs(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return args
	}
	return append(args,
		"trace_id", spanCtx.TraceID().String(),
		"span_id", spanCtx.SpanID().String(),
	)
}
