// Package log is a small leveled key-value logger on stderr.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
	"time"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *stdlog.Logger
	loggerOnce sync.Once
	minLevel   = LevelInfo
)

func initLogger() {
	loggerOnce.Do(func() {
		logger = stdlog.New(os.Stderr, "", 0)
	})
}

func SetLevel(l Level) {
	initLogger()
	minLevel = l
}

// SetOutput redirects log lines, e.g. to a debug file while a fullscreen
// TUI owns the terminal.
func SetOutput(w io.Writer) {
	initLogger()
	logger.SetOutput(w)
}

func Debug(msg string, kv ...any) {
	write(LevelDebug, msg, kv...)
}

func Info(msg string, kv ...any) {
	write(LevelInfo, msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	write(LevelError, msg, append([]any{"err", err}, kv...)...)
}

func write(level Level, msg string, kv ...any) {
	initLogger()
	if !enabled(level) {
		return
	}
	line := time.Now().UTC().Format(time.RFC3339) + " [" + string(level) + "] " + msg
	// kv comes in pairs; an odd trailing arg is ignored.
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		line += " " + key + "=" + fmt.Sprint(kv[i+1])
	}
	logger.Println(line)
}

func enabled(level Level) bool {
	switch minLevel {
	case LevelDebug:
		return true
	case LevelError:
		return level == LevelError
	default:
		return level != LevelDebug
	}
}
