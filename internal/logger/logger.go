// Package logger provides the service's leveled logging with a text or
// JSON line format.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	default:
		return "error"
	}
}

type logger struct {
	level Level
	json  bool
	out   *log.Logger
}

var defaultLogger *logger

// Init configures the default logger. Unknown levels fall back to info;
// any format other than "json" logs as text.
func Init(level, format string) {
	l := InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		l = DebugLevel
	case "warn":
		l = WarnLevel
	case "error":
		l = ErrorLevel
	}

	asJSON := strings.ToLower(format) == "json"
	flags := log.LstdFlags | log.Lmicroseconds
	if asJSON {
		flags = 0
	}

	defaultLogger = &logger{
		level: l,
		json:  asJSON,
		out:   log.New(os.Stderr, "", flags),
	}
}

func emit(level Level, format string, args ...interface{}) {
	if defaultLogger == nil || defaultLogger.level > level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if defaultLogger.json {
		line, err := json.Marshal(map[string]string{
			"ts":    time.Now().UTC().Format(time.RFC3339Nano),
			"level": level.String(),
			"msg":   msg,
		})
		if err == nil {
			defaultLogger.out.Print(string(line))
			return
		}
	}
	defaultLogger.out.Printf("[%s] %s", strings.ToUpper(level.String()), msg)
}

func Debug(format string, args ...interface{}) {
	emit(DebugLevel, format, args...)
}

func Info(format string, args ...interface{}) {
	emit(InfoLevel, format, args...)
}

func Warn(format string, args ...interface{}) {
	emit(WarnLevel, format, args...)
}

func Error(format string, args ...interface{}) {
	emit(ErrorLevel, format, args...)
}

// Fatal logs the message regardless of level and exits.
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if defaultLogger != nil {
		emit(ErrorLevel, "%s", msg)
	} else {
		log.Printf("[FATAL] %s", msg)
	}
	os.Exit(1)
}
