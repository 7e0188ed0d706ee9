package rsalog

import (
	"os"
	"testing"

	"github.com/op/go-logging"
)

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]logging.Level{
		"":         DefaultLevel,
		"bogus":    DefaultLevel,
		"CRITICAL": logging.CRITICAL,
		"ERROR":    logging.ERROR,
		"WARNING":  logging.WARNING,
		"NOTICE":   logging.NOTICE,
		"INFO":     logging.INFO,
		"DEBUG":    logging.DEBUG,
	}
	for env, want := range cases {
		os.Setenv("RSAKIT_LOG_LEVEL", env)
		if got := levelFromEnv(); got != want {
			t.Errorf("levelFromEnv() with RSAKIT_LOG_LEVEL=%q = %v, want %v", env, got, want)
		}
	}
	os.Unsetenv("RSAKIT_LOG_LEVEL")
}

func TestNewLoggerMethodsDoNotPanic(t *testing.T) {
	l := New("rsalog_test")
	l.Debugf("debug %d", 1)
	l.Infof("info %s", "x")
	l.Warnf("warn")
	l.Errorf("error %v", os.ErrClosed)
}
