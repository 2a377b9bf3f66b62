// SPDX-License-Identifier: EPL-2.0

// Package logger provides leveled logging for the audiodwc command.
//
// Messages go to one *log.Logger per level; levels below the configured one
// are discarded.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel accepts debug, info, warn (or warning) and error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var (
	mu sync.RWMutex

	// DebugLogger handles debug messages.
	DebugLogger = log.New(io.Discard, "", 0)
	// InfoLogger handles informational messages.
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lmsgprefix)
	// WarnLogger handles warnings, such as skipped recordings.
	WarnLogger = log.New(os.Stderr, "WARN: ", log.Ldate|log.Ltime|log.Lmsgprefix)
	// ErrorLogger handles error messages.
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lmsgprefix)
)

// Initialize sets up the loggers for level, writing info and debug to out and
// warnings and errors to errOut. Nil writers default to stdout and stderr.
func Initialize(level string, out, errOut io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	flags := log.Ldate | log.Ltime | log.Lmsgprefix
	if lvl == LevelDebug {
		flags |= log.Lshortfile
	}

	mu.Lock()
	defer mu.Unlock()

	DebugLogger = newLogger(lvl <= LevelDebug, out, "DEBUG: ", flags)
	InfoLogger = newLogger(lvl <= LevelInfo, out, "INFO: ", flags)
	WarnLogger = newLogger(lvl <= LevelWarn, errOut, "WARN: ", flags)
	ErrorLogger = newLogger(true, errOut, "ERROR: ", flags)

	return nil
}

func newLogger(enabled bool, w io.Writer, prefix string, flags int) *log.Logger {
	if !enabled {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, prefix, flags)
}

func output(l func() *log.Logger, message string, args ...any) {
	mu.RLock()
	lg := l()
	mu.RUnlock()
	// 3 = caller of Debug/Info/Warn/Error.
	_ = lg.Output(3, fmt.Sprintf(message, args...))
}

// Debug logs debug messages.
func Debug(message string, args ...any) {
	output(func() *log.Logger { return DebugLogger }, message, args...)
}

// Info logs informational messages.
func Info(message string, args ...any) {
	output(func() *log.Logger { return InfoLogger }, message, args...)
}

// Warn logs warnings.
func Warn(message string, args ...any) {
	output(func() *log.Logger { return WarnLogger }, message, args...)
}

// Error logs error messages.
func Error(message string, args ...any) {
	output(func() *log.Logger { return ErrorLogger }, message, args...)
}

// Fatal logs an error message and terminates the program.
func Fatal(message string, args ...any) {
	output(func() *log.Logger { return ErrorLogger }, message, args...)
	os.Exit(1)
}
