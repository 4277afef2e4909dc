package logging

import "github.com/arloliu/cqlprobe/types"

var _ types.Logger = (*NopLogger)(nil)

// NopLogger drops every message. Runners and Connect fall back to it when
// WithLogger is not given.
type NopLogger struct{}

// NewNopLogger returns a logger that drops every message.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (l *NopLogger) Debug(string, ...any) {}

func (l *NopLogger) Info(string, ...any) {}

func (l *NopLogger) Warn(string, ...any) {}

func (l *NopLogger) Error(string, ...any) {}
