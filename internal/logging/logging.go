// Package logging configures the standard logger for the server and adds
// level gating on top of it. Output goes to stderr unless a log file is
// configured, in which case it is rotated with lumberjack. Stdout is
// reserved for the JSON-RPC stream.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level orders log severities.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Options mirrors the logging keys of the server config.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
}

// ParseLevel maps a level name to a Level. Unknown names yield LevelInfo
// and an error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Setup points the standard logger at the configured destination and sets
// the active level. The returned closer releases the log file, if any.
func Setup(opts Options) (io.Closer, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	SetLevel(lvl)

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if opts.File == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB, // MB
		MaxBackups: opts.MaxBackups,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(lj)
	return lj, nil
}

// SetLevel changes the active level.
func SetLevel(l Level) { current.Store(int32(l)) }

// Enabled reports whether messages at l are emitted.
func Enabled(l Level) bool { return int32(l) >= current.Load() }

func output(l Level, prefix, format string, v ...interface{}) {
	if !Enabled(l) {
		return
	}
	log.Output(3, prefix+fmt.Sprintf(format, v...))
}

// Debugf logs at debug level.
func Debugf(format string, v ...interface{}) { output(LevelDebug, "DEBUG ", format, v...) }

// Infof logs at info level.
func Infof(format string, v ...interface{}) { output(LevelInfo, "INFO ", format, v...) }

// Warnf logs at warn level.
func Warnf(format string, v ...interface{}) { output(LevelWarn, "WARN ", format, v...) }

// Errorf logs at error level.
func Errorf(format string, v ...interface{}) { output(LevelError, "ERROR ", format, v...) }
