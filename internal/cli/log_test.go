package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("placed", "point", "C") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("backtrack", "point", "C") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("backtrack", "point", "C") }, true},
		{"info at warn level", log.WarnLevel, func(l *log.Logger) { l.Info("placed") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := LevelFromEnv(tt.value, log.InfoLevel); got != tt.want {
			t.Errorf("LevelFromEnv(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Solved square", "points", 4)

	out := buf.String()
	for _, want := range []string{"Solved square", "points=4", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected log.Default without an attached logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext did not return the attached logger")
	}
	got.Info("ready")
	if buf.Len() == 0 {
		t.Error("attached logger did not write")
	}
}
