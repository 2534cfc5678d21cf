package logger

import "github.com/angelstreet/automai-sub009/pkg/ports"

// NoopLogger discards all messages. It backs quiet mode and keeps test
// output free of monitoring chatter.
type NoopLogger struct{}

// NewNoop creates a no-op logger.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...interface{}) {}

func (l *NoopLogger) Info(msg string, args ...interface{}) {}

func (l *NoopLogger) Warn(msg string, args ...interface{}) {}

func (l *NoopLogger) Error(msg string, args ...interface{}) {}

// WithComponent returns the same no-op logger.
func (l *NoopLogger) WithComponent(component string) ports.Logger {
	return l
}

// Ensure NoopLogger implements ports.Logger.
var _ ports.Logger = (*NoopLogger)(nil)
