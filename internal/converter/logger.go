package converter

import (
	"fmt"
	"io"
	"log/slog"
)

// Logger is the diagnostic sink of a conversion run. Progress lines meant
// for the user are written separately to the run's output writer.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NewLogger returns a Logger writing text records to w. Debug records are
// only emitted when verbose is set.
func NewLogger(w io.Writer, verbose bool) Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &slogLogger{l: slog.New(handler)}
}

// NopLogger discards everything.
func NopLogger() Logger {
	return NewLogger(io.Discard, false)
}

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Debug(msg string, args ...interface{}) {
	s.l.Debug(fmt.Sprintf(msg, args...))
}

func (s *slogLogger) Info(msg string, args ...interface{}) {
	s.l.Info(fmt.Sprintf(msg, args...))
}

func (s *slogLogger) Warn(msg string, args ...interface{}) {
	s.l.Warn(fmt.Sprintf(msg, args...))
}

func (s *slogLogger) Error(msg string, args ...interface{}) {
	s.l.Error(fmt.Sprintf(msg, args...))
}
