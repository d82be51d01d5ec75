package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

var (
	root hclog.Logger

	currentLevel LogLevel
	mu           sync.RWMutex
)

func init() {
	configure(os.Stdout)
}

func configure(out io.Writer) {
	currentLevel = levelFromEnv(os.Getenv("GATEWAY_LOG_LEVEL"))
	root = hclog.New(&hclog.LoggerOptions{
		Name:       "gateway",
		Level:      toHclogLevel(currentLevel),
		Output:     out,
		JSONFormat: os.Getenv("GATEWAY_LOG_JSON") == "true",
	})
}

func levelFromEnv(lvl string) LogLevel {
	switch strings.ToUpper(lvl) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return DEBUG
	}
}

func toHclogLevel(l LogLevel) hclog.Level {
	switch l {
	case TRACE:
		return hclog.Trace
	case DEBUG:
		return hclog.Debug
	case INFO:
		return hclog.Info
	case WARN:
		return hclog.Warn
	default:
		return hclog.Error
	}
}

// SetOutput redirects all log output, mainly so tests can capture it.
func SetOutput(out io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	configure(out)
}

// SetLevel overrides the level read from GATEWAY_LOG_LEVEL
func SetLevel(l LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = l
	root.SetLevel(toHclogLevel(l))
}

// Named returns a sub-logger for a component, sharing the root's output and level.
func Named(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(name)
}

func get() (hclog.Logger, LogLevel) {
	mu.RLock()
	defer mu.RUnlock()
	return root, currentLevel
}

// Level check functions
func IsTraceEnabled() bool {
	_, l := get()
	return l <= TRACE
}

func IsDebugEnabled() bool {
	_, l := get()
	return l <= DEBUG
}

func IsInfoEnabled() bool {
	_, l := get()
	return l <= INFO
}

func IsWarnEnabled() bool {
	_, l := get()
	return l <= WARN
}

func IsErrorEnabled() bool {
	_, l := get()
	return l <= ERROR
}

// Trace level logging
func Tracef(format string, v ...interface{}) {
	if l, lvl := get(); lvl <= TRACE {
		l.Trace(fmt.Sprintf(format, v...))
	}
}

func Traceln(msg string) {
	if l, lvl := get(); lvl <= TRACE {
		l.Trace(msg)
	}
}

// Debug level logging
func Debugf(format string, v ...interface{}) {
	if l, lvl := get(); lvl <= DEBUG {
		l.Debug(fmt.Sprintf(format, v...))
	}
}

func Debugln(msg string) {
	if l, lvl := get(); lvl <= DEBUG {
		l.Debug(msg)
	}
}

// Info level logging
func Infof(format string, v ...interface{}) {
	if l, lvl := get(); lvl <= INFO {
		l.Info(fmt.Sprintf(format, v...))
	}
}

func Infoln(msg string) {
	if l, lvl := get(); lvl <= INFO {
		l.Info(msg)
	}
}

// Warn level logging
func Warnf(format string, v ...interface{}) {
	if l, lvl := get(); lvl <= WARN {
		l.Warn(fmt.Sprintf(format, v...))
	}
}

func Warnln(msg string) {
	if l, lvl := get(); lvl <= WARN {
		l.Warn(msg)
	}
}

// Error level logging
func Errorf(format string, v ...interface{}) {
	if l, lvl := get(); lvl <= ERROR {
		l.Error(fmt.Sprintf(format, v...))
	}
}

func Errorln(msg string) {
	if l, lvl := get(); lvl <= ERROR {
		l.Error(msg)
	}
}

// GetCurrentLevel returns the current log level
func GetCurrentLevel() LogLevel {
	_, l := get()
	return l
}
