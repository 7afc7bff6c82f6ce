package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologProvider is a LoggerProvider backed by rs/zerolog, writing
// JSON records to stderr.
type ZerologProvider struct {
	root zerolog.Logger
}

// NewZerologProvider creates a provider logging at the given level.
func NewZerologProvider(level zerolog.Level) *ZerologProvider {
	return NewZerologProviderWithWriter(level, os.Stderr)
}

// NewZerologProviderWithWriter creates a provider writing to w. Used by
// tests to capture output.
func NewZerologProviderWithWriter(level zerolog.Level, w io.Writer) *ZerologProvider {
	root := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &ZerologProvider{root: root}
}

// GetLogger returns an unnamed logger.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{logger: p.root}
}

// GetLoggerWithName returns a logger with the logger name attached.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{logger: p.root.With().Str("logger", name).Logger()}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Debug(), msg, keysAndValues)
}

func (l *zerologLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Info(), msg, keysAndValues)
}

func (l *zerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Warn(), msg, keysAndValues)
}

func (l *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Error(), msg, keysAndValues)
}

func (l *zerologLogger) With(keysAndValues ...interface{}) Logger {
	ctx := l.logger.With()
	for k, v := range pairs(keysAndValues) {
		ctx = ctx.Interface(k, v)
	}
	return &zerologLogger{logger: ctx.Logger()}
}

func (l *zerologLogger) log(ev *zerolog.Event, msg string, keysAndValues []interface{}) {
	for k, v := range pairs(keysAndValues) {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// pairs converts an alternating key/value list into a map. A trailing key
// without a value is kept with a nil value rather than dropped.
func pairs(keysAndValues []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		if i+1 < len(keysAndValues) {
			m[key] = keysAndValues[i+1]
		} else {
			m[key] = nil
		}
	}
	return m
}
