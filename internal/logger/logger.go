package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger is a key-value structured logger backed by zap.
// A nil *Logger is valid and discards everything.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger. mode "prod"/"production" emits JSON at info level;
// anything else emits human-readable output at debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{sugar: z.Sugar()}
}

func (l *Logger) Debug(msg string, kv ...any) {
	if l != nil {
		l.sugar.Debugw(msg, kv...)
	}
}

func (l *Logger) Info(msg string, kv ...any) {
	if l != nil {
		l.sugar.Infow(msg, kv...)
	}
}

func (l *Logger) Warn(msg string, kv ...any) {
	if l != nil {
		l.sugar.Warnw(msg, kv...)
	}
}

func (l *Logger) Error(msg string, kv ...any) {
	if l != nil {
		l.sugar.Errorw(msg, kv...)
	}
}

// With returns a child logger that always carries kv.
func (l *Logger) With(kv ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sugar: l.sugar.With(kv...)}
}

// Sync flushes buffered entries. Errors are ignored; stderr syncing fails on
// some terminals.
func (l *Logger) Sync() {
	if l != nil {
		_ = l.sugar.Sync()
	}
}
