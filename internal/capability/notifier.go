package capability

import (
	"cmdbmcp/pkg/logging"
)

// Notifier is the per-invocation logging channel back to the caller.
// Implementations must not block and must not fail the invocation.
type Notifier interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// NopNotifier discards every message.
type NopNotifier struct{}

func (NopNotifier) Debug(string, ...interface{}) {}
func (NopNotifier) Info(string, ...interface{})  {}
func (NopNotifier) Warn(string, ...interface{})  {}
func (NopNotifier) Error(string, ...interface{}) {}

// LogNotifier forwards messages to the process log under a subsystem.
type LogNotifier struct {
	Subsystem string
}

func (n LogNotifier) subsystem() string {
	if n.Subsystem == "" {
		return "Capability"
	}
	return n.Subsystem
}

func (n LogNotifier) Debug(format string, args ...interface{}) {
	logging.Debug(n.subsystem(), format, args...)
}

func (n LogNotifier) Info(format string, args ...interface{}) {
	logging.Info(n.subsystem(), format, args...)
}

func (n LogNotifier) Warn(format string, args ...interface{}) {
	logging.Warn(n.subsystem(), format, args...)
}

func (n LogNotifier) Error(format string, args ...interface{}) {
	logging.Error(n.subsystem(), nil, format, args...)
}

// MultiNotifier fans every message out to all of its notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Debug(format string, args ...interface{}) {
	for _, n := range m {
		n.Debug(format, args...)
	}
}

func (m MultiNotifier) Info(format string, args ...interface{}) {
	for _, n := range m {
		n.Info(format, args...)
	}
}

func (m MultiNotifier) Warn(format string, args ...interface{}) {
	for _, n := range m {
		n.Warn(format, args...)
	}
}

func (m MultiNotifier) Error(format string, args ...interface{}) {
	for _, n := range m {
		n.Error(format, args...)
	}
}

// orNop returns n, or a NopNotifier when n is nil.
func orNop(n Notifier) Notifier {
	if n == nil {
		return NopNotifier{}
	}
	return n
}
