package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// EnvLogLevel names the environment variable that sets the default log level.
const EnvLogLevel = "GCAD_LOG_LEVEL"

// newLogger returns a logger writing to w with short wall-clock timestamps
// ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// LevelFromEnv parses a level name such as "debug" or "warn". An empty or
// unknown value yields fallback.
func LevelFromEnv(value string, fallback log.Level) log.Level {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	level, err := log.ParseLevel(strings.ToLower(value))
	if err != nil {
		return fallback
	}
	return level
}

// progress logs the elapsed time of one operation. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time, e.g.
// "Solved square points=4 elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

// withLogger attaches l to ctx for the running command.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default if none is set.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
