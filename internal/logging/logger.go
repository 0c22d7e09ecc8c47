// Package logging provides the leveled, named logger used across rfpagents.
//
// Initialize the global level once at startup, then ask for a named logger per
// component:
//
//	logging.Initialize("info", map[string]string{"agent.*": "debug"})
//	logger := logging.GetLogger("agent.registry")
//	logger.InfoWithFields("registry ready", logging.Field("agents", 4))
//
// Loggers are immutable. WithField, WithFields and WithContext return copies, so
// a logger can be shared between goroutines without coordination.
//
// Per-package overrides accept exact names ("agent.registry") and wildcard
// prefixes ("agent.*"). The most specific match wins; loggers without a match use
// the default level.
package logging

import (
	"context"
	"os"
	"sync"
)

const appName = "rfpagents"

var (
	globalLogger *Logger
	initOnce     sync.Once
	// exitFunc terminates the process on Fatal. Tests replace it.
	exitFunc = os.Exit
)

// Logger writes leveled messages tagged with a component name.
type Logger struct {
	level  LogLevel
	name   string
	fields map[string]interface{}
	ctx    context.Context
}

// LogField is a single structured key/value pair.
type LogField struct {
	Key   string
	Value interface{}
}

// Field creates a structured logging field.
func Field(key string, value interface{}) LogField {
	return LogField{Key: key, Value: value}
}

// Initialize sets the default level and optional per-package overrides.
// Unknown default levels fall back to INFO; invalid overrides are rejected.
func Initialize(levelStr string, packageLevels ...map[string]string) error {
	level, err := parseLevel(levelStr)
	if err != nil {
		level = INFO
	}

	globalLogger = &Logger{
		level: level,
		name:  appName,
	}

	if len(packageLevels) > 0 && packageLevels[0] != nil {
		if err := SetPackageLogLevels(packageLevels[0]); err != nil {
			return err
		}
	}
	return nil
}

// GetLogger returns a logger with the specified name. The global logger is
// initialized at INFO on first use if Initialize was never called.
func GetLogger(name string) *Logger {
	initOnce.Do(func() {
		if globalLogger == nil {
			_ = Initialize("info")
		}
	})
	return &Logger{
		level:  globalLogger.level,
		name:   name,
		fields: make(map[string]interface{}),
	}
}

// Name returns the component name of the logger.
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) shouldLog(level LogLevel) bool {
	if pkgLevel := GetPackageLogLevel(l.name); pkgLevel >= 0 {
		return level >= pkgLevel
	}
	return level >= l.level
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(DEBUG) {
		l.logf(DEBUG, msg, args...)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(INFO) {
		l.logf(INFO, msg, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(WARN) {
		l.logf(WARN, msg, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.shouldLog(ERROR) {
		l.logf(ERROR, msg, args...)
	}
}

// ErrorWithErr logs msg followed by err.
func (l *Logger) ErrorWithErr(msg string, err error, args ...interface{}) {
	if l.shouldLog(ERROR) {
		args = append(args, err)
		l.logf(ERROR, msg+" - %v", args...)
	}
}

// Fatal logs a fatal message and exits the program with code 1
func (l *Logger) Fatal(msg string, args ...interface{}) {
	if l.shouldLog(FATAL) {
		l.logf(FATAL, msg, args...)
		exitFunc(1)
	}
}

// DebugWithFields logs a debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields ...LogField) {
	if l.shouldLog(DEBUG) {
		l.logWithFields(DEBUG, msg, fields...)
	}
}

// InfoWithFields logs an info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields ...LogField) {
	if l.shouldLog(INFO) {
		l.logWithFields(INFO, msg, fields...)
	}
}

// WarnWithFields logs a warning message with structured fields
func (l *Logger) WarnWithFields(msg string, fields ...LogField) {
	if l.shouldLog(WARN) {
		l.logWithFields(WARN, msg, fields...)
	}
}

// ErrorWithFields logs an error message with structured fields
func (l *Logger) ErrorWithFields(msg string, fields ...LogField) {
	if l.shouldLog(ERROR) {
		l.logWithFields(ERROR, msg, fields...)
	}
}

// FatalWithFields logs a fatal message with structured fields and exits with code 1.
func (l *Logger) FatalWithFields(msg string, fields ...LogField) {
	if l.shouldLog(FATAL) {
		l.logWithFields(FATAL, msg, fields...)
		exitFunc(1)
	}
}

// WithName returns a copy of the logger under a different component name.
// Persistent fields are dropped; the context is kept.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		level:  l.level,
		name:   name,
		fields: make(map[string]interface{}),
		ctx:    l.ctx,
	}
}

// WithField returns a copy of the logger carrying key=value on every line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	next := l.clone()
	next.fields[key] = value
	return next
}

// WithFields returns a copy of the logger carrying all fields on every line.
func (l *Logger) WithFields(fields ...LogField) *Logger {
	next := l.clone()
	for _, f := range fields {
		next.fields[f.Key] = f.Value
	}
	return next
}

// WithContext returns a copy of the logger that adds trace_id and span_id from
// ctx when present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	next := l.clone()
	next.ctx = ctx
	return next
}

func (l *Logger) clone() *Logger {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{
		level:  l.level,
		name:   l.name,
		fields: fields,
		ctx:    l.ctx,
	}
}
