package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Logger carries the package/function/file context through a chain of calls
// so every line identifies where it came from without callers repeating it.
type Logger struct {
	base     *slog.Logger
	pkg      string
	function string
	file     string
}

func New(pkg string) Logger {
	return Logger{
		base: slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})),
		pkg: pkg,
	}
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) attrs(args ...any) []any {
	out := make([]any, 0, len(args)+6)
	out = append(out, "package", l.pkg)
	if l.file != "" {
		out = append(out, "file", l.file)
	}
	if l.function != "" {
		out = append(out, "function", l.function)
	}
	return append(out, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.base.Info(msg, l.attrs(args...)...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.base.Warn(msg, l.attrs(args...)...)
}

// Err logs msg with the underlying error and returns a wrapped error so
// callers can `return log.Err(...)` in one statement.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.base.Error(msg, l.attrs(append(args, "error", err))...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs like Err but is for paths where the error is handled in place.
func (l Logger) Er(msg string, err error, args ...any) {
	l.base.Error(msg, l.attrs(append(args, "error", err))...)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.base.Error(msg, l.attrs(args...)...)
	return errors.New(msg)
}

// ErrMsg is Error without structured arguments.
func (l Logger) ErrMsg(msg string) error {
	l.base.Error(msg, l.attrs()...)
	return errors.New(msg)
}

// ErMsg logs msg at error level without returning anything.
func (l Logger) ErMsg(msg string) {
	l.base.Error(msg, l.attrs()...)
}
