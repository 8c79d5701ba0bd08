package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger defines the logging interface used by the client, server and codec packages.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)

	// WithField returns a Logger that adds key=value to every entry.
	WithField(key string, value any) Logger
	// WithFields returns a Logger that adds all fields to every entry.
	WithFields(fields map[string]any) Logger
}

// DefaultLogger provides a Logger implementation using logrus.
type DefaultLogger struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewDefaultLogger creates a text logger at info level writing to stderr.
func NewDefaultLogger() *DefaultLogger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)

	return &DefaultLogger{
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

// NewLoggerWithLevel creates a logger with the given level name.
// Unknown level names fall back to info.
func NewLoggerWithLevel(level string) *DefaultLogger {
	l := NewDefaultLogger()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.logger.SetLevel(lvl)

	return l
}

// NewDiscardLogger creates a logger that drops every entry.
func NewDiscardLogger() *DefaultLogger {
	l := NewDefaultLogger()
	l.logger.SetOutput(io.Discard)
	l.logger.SetLevel(logrus.PanicLevel)
	return l
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return NewDiscardLogger()
	}
	return l
}

func (l *DefaultLogger) Debug(args ...any)                 { l.entry.Debug(args...) }
func (l *DefaultLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *DefaultLogger) Info(args ...any)                  { l.entry.Info(args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *DefaultLogger) Warn(args ...any)                  { l.entry.Warn(args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *DefaultLogger) Error(args ...any)                 { l.entry.Error(args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

// WithField implements Logger.
func (l *DefaultLogger) WithField(key string, value any) Logger {
	return &DefaultLogger{
		logger: l.logger,
		entry:  l.entry.WithField(key, value),
	}
}

// WithFields implements Logger.
func (l *DefaultLogger) WithFields(fields map[string]any) Logger {
	return &DefaultLogger{
		logger: l.logger,
		entry:  l.entry.WithFields(logrus.Fields(fields)),
	}
}

// SetLevel sets the log level. Unknown level names are rejected.
func (l *DefaultLogger) SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.logger.SetLevel(lvl)
	return nil
}

// SetOutput redirects log output.
func (l *DefaultLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// GetLogrus returns the underlying logrus logger for advanced configuration.
func (l *DefaultLogger) GetLogrus() *logrus.Logger {
	return l.logger
}
