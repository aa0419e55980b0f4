// Package logger is the zap-backed logging shared by the request service.
// The *FCtx methods attach the request id and endpoint of the call in ctx.
package logger

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogManager is the logging surface the rest of the module depends on.
type LogManager interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	InfoF(format string, args ...any)
	WarnF(format string, args ...any)
	ErrorF(format string, args ...any)

	DebugFCtx(ctx context.Context, format string, args ...any)
	InfoFCtx(ctx context.Context, format string, args ...any)
	WarnFCtx(ctx context.Context, format string, args ...any)
	ErrorFCtx(ctx context.Context, format string, args ...any)

	With(keyValues ...any) LogManager

	Sync() error
	// SetLogLevel changes the level of this logger and every logger derived
	// from it with With.
	SetLogLevel(level string) error
	Level() string
}

// Options configures New.
type Options struct {
	// Level is debug, info, warn or error. Anything else means info.
	Level string
	// JSON selects the JSON encoder instead of the console one.
	JSON bool
	// Caller adds the calling file:line.
	Caller bool
	// Output defaults to stderr, keeping stdout for command output.
	Output io.Writer
}

// New builds a LogManager from opts.
func New(opts Options) LogManager {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	_ = level.UnmarshalText([]byte(opts.Level))

	enc := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	var encoder zapcore.Encoder
	if opts.JSON {
		encoder = zapcore.NewJSONEncoder(enc)
	} else {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(enc)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	zopts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if opts.Caller {
		zopts = append(zopts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	return &sugared{log: zap.New(core, zopts...).Sugar(), level: level}
}

// FromLevel builds the console logger used by the CLI. Unlike New it rejects
// an unknown level.
func FromLevel(level string) (LogManager, error) {
	if _, err := zapcore.ParseLevel(level); err != nil {
		return nil, err
	}
	return New(Options{Level: level, Caller: level == "debug"}), nil
}

// NewNop returns a LogManager that discards everything.
func NewNop() LogManager {
	return &sugared{log: zap.NewNop().Sugar(), level: zap.NewAtomicLevel()}
}

type sugared struct {
	log   *zap.SugaredLogger
	level zap.AtomicLevel
}

func (l *sugared) Debug(args ...any) { l.log.Debug(args...) }
func (l *sugared) Info(args ...any)  { l.log.Info(args...) }
func (l *sugared) Warn(args ...any)  { l.log.Warn(args...) }
func (l *sugared) Error(args ...any) { l.log.Error(args...) }

func (l *sugared) InfoF(format string, args ...any)  { l.log.Infof(format, args...) }
func (l *sugared) WarnF(format string, args ...any)  { l.log.Warnf(format, args...) }
func (l *sugared) ErrorF(format string, args ...any) { l.log.Errorf(format, args...) }

func (l *sugared) DebugFCtx(ctx context.Context, format string, args ...any) {
	l.inCtx(ctx).Debugf(format, args...)
}

func (l *sugared) InfoFCtx(ctx context.Context, format string, args ...any) {
	l.inCtx(ctx).Infof(format, args...)
}

func (l *sugared) WarnFCtx(ctx context.Context, format string, args ...any) {
	l.inCtx(ctx).Warnf(format, args...)
}

func (l *sugared) ErrorFCtx(ctx context.Context, format string, args ...any) {
	l.inCtx(ctx).Errorf(format, args...)
}

func (l *sugared) inCtx(ctx context.Context) *zap.SugaredLogger {
	if fields := contextFields(ctx); len(fields) > 0 {
		return l.log.With(fields...)
	}
	return l.log
}

func (l *sugared) With(keyValues ...any) LogManager {
	return &sugared{log: l.log.With(keyValues...), level: l.level}
}

func (l *sugared) Sync() error { return l.log.Sync() }

func (l *sugared) SetLogLevel(level string) error {
	return l.level.UnmarshalText([]byte(level))
}

func (l *sugared) Level() string { return l.level.String() }
