package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger with the given prefix. With a non-empty dir, output
// goes to a rotated file in that directory; otherwise it goes to stderr.
func New(prefix, level, dir string) *log.Logger {
	var w io.Writer = os.Stderr
	if dir != "" {
		w = &lumberjack.Logger{
			Filename:   filepath.Join(dir, prefix+".log"),
			MaxSize:    32, // MB
			MaxBackups: 3,
		}
	}
	return NewWithWriter(prefix, level, w)
}

func NewWithWriter(prefix, level string, w io.Writer) *log.Logger {
	lg := log.New(prefix)
	lg.SetOutput(w)
	lg.SetLevel(ParseLevel(level))
	return lg
}

// Discard returns a logger that drops everything; tests use it.
func Discard() *log.Logger {
	lg := log.New("-")
	lg.SetOutput(io.Discard)
	lg.SetLevel(log.OFF)
	return lg
}

func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "", "info":
		return log.INFO
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level, using info\n", level)
		return log.INFO
	}
}

// Hello starts the log with basic information about the system we're
// running on.
func Hello(lg *log.Logger) {
	lg.Infoj(log.JSON{
		"msg":     "system information",
		"goarch":  runtime.GOARCH,
		"goos":    runtime.GOOS,
		"numcpus": runtime.NumCPU(),
		"go":      runtime.Version(),
	})
}
