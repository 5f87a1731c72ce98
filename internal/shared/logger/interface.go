package logger

import (
	"io"
	"log/slog"
)

// Interface is the structured logger handed to services, repositories and
// handlers. Key-value pairs follow slog conventions.
type Interface interface {
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type slogLogger struct {
	logger *slog.Logger
}

// NewNopLogger discards everything.
func NewNopLogger() Interface {
	return Wrap(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// NewLogger wraps the process logger set up by Init.
func NewLogger() Interface {
	return Wrap(Get())
}

func Wrap(l *slog.Logger) Interface {
	return &slogLogger{logger: l}
}

func (l *slogLogger) With(args ...any) Interface {
	return Wrap(l.logger.With(args...))
}

// Named tags every record with the emitting component.
func (l *slogLogger) Named(name string) Interface {
	return Wrap(l.logger.With("component", name))
}

func (l *slogLogger) Debugw(msg string, keysAndValues ...any) { l.logger.Debug(msg, keysAndValues...) }
func (l *slogLogger) Infow(msg string, keysAndValues ...any)  { l.logger.Info(msg, keysAndValues...) }
func (l *slogLogger) Warnw(msg string, keysAndValues ...any)  { l.logger.Warn(msg, keysAndValues...) }
func (l *slogLogger) Errorw(msg string, keysAndValues ...any) { l.logger.Error(msg, keysAndValues...) }
