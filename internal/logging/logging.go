package logging

import (
	"bytes"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

const logPrefix = "C4Diagrammer"

type AppLogger struct {
	logger *log.Logger
	debug  bool
}

var (
	defaultLogger *AppLogger
	once          sync.Once
)

// GetDefault returns the default logger instance (singleton-like for convenience)
func GetDefault() *AppLogger {
	once.Do(func() {
		defaultLogger = NewAppLogger()
	})
	return defaultLogger
}

// Package-level convenience functions for quick logging
func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	GetDefault().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

func LogPerformance(operation string, start time.Time) {
	GetDefault().LogPerformance(operation, start)
}

// NewAppLogger builds the process logger. Stdout carries JSON-RPC frames, so nothing is
// ever written there.
func NewAppLogger() *AppLogger {
	debug := os.Getenv("DEBUG") != ""

	var logger *log.Logger

	if debug {
		// Development: log to a file under the XDG state dir, cleared on each run
		logPath, err := xdg.StateFile("c4diagrammer/c4diagrammer.log")
		if err != nil {
			panic(fmt.Sprintf("Failed to resolve debug log path: %v", err))
		}

		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			panic(fmt.Sprintf("Failed to create debug log file: %v", err))
		}

		logger = log.NewWithOptions(io.MultiWriter(logFile, os.Stderr), log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          logPrefix,
		})
		logger.SetLevel(log.DebugLevel)

		logger.Info("Debug logging enabled", "log_file", logPath)

	} else {
		// Production: warnings and errors to stderr only
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          logPrefix,
		})
		logger.SetLevel(log.WarnLevel)
	}

	return &AppLogger{
		logger: logger,
		debug:  debug,
	}
}

// Log application events
func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// With returns a logger that adds keyvals to every entry.
func (al *AppLogger) With(keyvals ...interface{}) *AppLogger {
	return &AppLogger{
		logger: al.logger.With(keyvals...),
		debug:  al.debug,
	}
}

// IsDebug reports whether debug output is enabled.
func (al *AppLogger) IsDebug() bool {
	return al.debug
}

// StandardLog adapts the logger for libraries that expect a *log.Logger. Everything it
// receives is logged at error level.
func (al *AppLogger) StandardLog() *stdlog.Logger {
	return al.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})
}

// Log an MCP tool invocation (debug only)
func (al *AppLogger) LogToolCall(tool string, args map[string]any) {
	if !al.debug {
		return
	}

	al.logger.Debug("Tool called",
		"tool", tool,
		"args", fmt.Sprintf("%v", args),
	)
}

// Pretty print any object
func (al *AppLogger) DebugObject(name string, obj interface{}) {
	if al.debug {
		al.logger.Debug("Object dump", "name", name, "object", fmt.Sprintf("%+v", obj))
	}
}

// Log performance metrics
func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	if al.debug {
		duration := time.Since(start)
		al.logger.Debug("Performance",
			"operation", operation,
			"duration", duration,
		)
	}
}

// Log a rejected path
func (al *AppLogger) LogAccessDenied(tool, path string, err error) {
	al.logger.Warn("Access denied",
		"tool", tool,
		"path", path,
		"reason", err,
	)
}

// Testing Helper - NewTestLogger creates a logger that writes to a buffer for testing
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false, // Easier to test without timestamps
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
