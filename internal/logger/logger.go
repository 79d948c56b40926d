package logger

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"oshalog/internal/apperrors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	base = zap.NewNop().Sugar()
)

func init() {
	if err := Configure("info", false); err != nil {
		panic(err)
	}
}

// Configure replaces the process wide zap backend. Production switches to
// JSON output.
func Configure(level string, production bool) error {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.DisableStacktrace = true

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	built, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	mu.Lock()
	base = built.Sugar()
	mu.Unlock()
	return nil
}

func Sync() {
	_ = sugar().Sync()
}

// StdLog exposes the backend as a *log.Logger for libraries that only accept
// a Printf style writer (gorm).
func StdLog() *log.Logger {
	return zap.NewStdLog(sugar().Desugar())
}

func sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

type Logger struct {
	component string
	file      string
	function  string
	fields    []any
}

func New(component string) Logger {
	return Logger{component: component}
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) With(keysAndValues ...any) Logger {
	fields := make([]any, 0, len(l.fields)+len(keysAndValues))
	fields = append(fields, l.fields...)
	l.fields = append(fields, keysAndValues...)
	return l
}

func (l Logger) kv(keysAndValues []any) []any {
	out := make([]any, 0, 6+len(l.fields)+len(keysAndValues))
	out = append(out, "component", l.component)
	if l.file != "" {
		out = append(out, "file", l.file)
	}
	if l.function != "" {
		out = append(out, "function", l.function)
	}
	out = append(out, l.fields...)
	return append(out, keysAndValues...)
}

func (l Logger) Debug(msg string, keysAndValues ...any) {
	sugar().Debugw(msg, l.kv(keysAndValues)...)
}

func (l Logger) Info(msg string, keysAndValues ...any) {
	sugar().Infow(msg, l.kv(keysAndValues)...)
}

func (l Logger) Warn(msg string, keysAndValues ...any) {
	sugar().Warnw(msg, l.kv(keysAndValues)...)
}

// Err logs err and returns it wrapped with msg.
func (l Logger) Err(msg string, err error, keysAndValues ...any) error {
	l.Er(msg, err, keysAndValues...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs err without returning it. Caller errors (not found, validation,
// parse) go out at warn level so bad input does not page anyone.
func (l Logger) Er(msg string, err error, keysAndValues ...any) {
	fields := l.kv(append([]any{"error", err}, keysAndValues...))
	if apperrors.IsCallerError(err) {
		sugar().Warnw(msg, fields...)
		return
	}
	sugar().Errorw(msg, fields...)
}

func (l Logger) Error(msg string, keysAndValues ...any) error {
	sugar().Errorw(msg, l.kv(keysAndValues)...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}

func (l Logger) ErMsg(msg string) {
	sugar().Errorw(msg, l.kv(nil)...)
}
