// Package log provides structured logging for sparsefit estimators.
//
// The package wraps rs/zerolog behind a small Logger interface so that
// estimators log through a stable facade. Loggers are obtained from a
// LoggerProvider; the package-level functions operate on a process-wide
// default provider configured by SetupLogger.
package log

import "github.com/rs/zerolog"

// Structured logging keys used across estimators. Keeping them as
// constants makes log output queryable and consistent.
const (
	ModelNameKey  = "model"
	ComponentKey  = "component"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	IterationsKey = "iterations"
	LambdaKey     = "lambda"
	ObjectiveKey  = "objective"
	DurationMsKey = "duration_ms"
	PredsKey      = "predictions"
)

// Operation and phase values for the keys above.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"

	PhaseTraining  = "training"
	PhaseInference = "inference"
)

// Logger is the structured logging facade used by estimators. Keys and
// values alternate in keysAndValues, as in slog.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	// With returns a child logger with the given fields attached to
	// every record.
	With(keysAndValues ...interface{}) Logger
}

// LoggerProvider creates named loggers. Implementations decide the backend
// and output format.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
}

var defaultProvider LoggerProvider = NewZerologProvider(zerolog.InfoLevel)

// SetupLogger configures the default provider with the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func SetupLogger(level string) {
	defaultProvider = NewZerologProvider(ToLogLevel(level))
}

// SetProvider replaces the default provider. Intended for tests and for
// applications that bring their own backend.
func SetProvider(p LoggerProvider) {
	if p != nil {
		defaultProvider = p
	}
}

// GetLogger returns an unnamed logger from the default provider.
func GetLogger() Logger {
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a named logger from the default provider.
func GetLoggerWithName(name string) Logger {
	return defaultProvider.GetLoggerWithName(name)
}

// LogError logs err with a message through the default provider.
func LogError(err error, msg string, keysAndValues ...interface{}) {
	kv := append([]interface{}{"error", err}, keysAndValues...)
	defaultProvider.GetLogger().Error(msg, kv...)
}

// ToLogLevel converts a level name to a zerolog level, defaulting to info.
func ToLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
