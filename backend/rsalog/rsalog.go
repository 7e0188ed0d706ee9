// Package rsalog wires up leveled, env-var-driven logging for the rest of
// the module: a quiet stderr default that RSAKIT_LOG_LEVEL can make
// chattier.
package rsalog

import (
	"os"

	"github.com/op/go-logging"
)

var format = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.6s} ▶ %{module}: %{message}`,
)

// DefaultLevel is used when RSAKIT_LOG_LEVEL is unset or unrecognized.
const DefaultLevel = logging.WARNING

// Logger wraps a named go-logging logger at a level controlled by the
// RSAKIT_LOG_LEVEL environment variable (CRITICAL, ERROR, WARNING, NOTICE,
// INFO, DEBUG).
type Logger struct {
	inner *logging.Logger
}

// New returns a Logger for the given module name. Every call shares the
// same stderr backend and level, set once from the environment.
func New(name string) *Logger {
	configureBackendOnce()
	return &Logger{inner: logging.MustGetLogger(name)}
}

var backendConfigured bool

func configureBackendOnce() {
	if backendConfigured {
		return
	}
	backendConfigured = true

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(levelFromEnv(), "")
	logging.SetBackend(leveled)
}

func levelFromEnv() logging.Level {
	switch os.Getenv("RSAKIT_LOG_LEVEL") {
	case "CRITICAL":
		return logging.CRITICAL
	case "ERROR":
		return logging.ERROR
	case "WARNING":
		return logging.WARNING
	case "NOTICE":
		return logging.NOTICE
	case "INFO":
		return logging.INFO
	case "DEBUG":
		return logging.DEBUG
	default:
		return DefaultLevel
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.inner.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.inner.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.inner.Warningf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.inner.Errorf(format, args...)
}
