package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/tabsye/waitlist/config"
	kunlog "github.com/yaoapp/kun/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	dev     atomic.Bool
	console io.Writer = os.Stdout

	gray   = color.New(color.FgHiBlack)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// Logger provides component-level leveled logging. Every package of the
// waitlist application shares this implementation.
//
// Dev mode  → colored stdout + kun/log (unified).
// Prod mode → kun/log at matching level.
type Logger struct {
	tag string
}

// New creates a Logger tagged with the given component name
// (e.g. "tracker", "signup", "mock").
func New(tag string) *Logger {
	return &Logger{tag: tag}
}

// Setup applies the logging part of cfg to the kun/log backend. When cfg.Log
// names a file, output goes to a rotating lumberjack writer. The returned
// closer releases that writer and is a no-op otherwise.
func Setup(cfg config.Config) (io.Closer, error) {
	dev.Store(cfg.IsDevelopment())

	kunlog.SetFormatter(kunlog.TEXT)
	if cfg.LogMode == "JSON" {
		kunlog.SetFormatter(kunlog.JSON)
	}
	kunlog.SetLevel(parseLevel(cfg.LogLevel))

	if cfg.Log == "" {
		kunlog.SetOutput(os.Stdout)
		if cfg.IsDevelopment() {
			// The colored console echo already covers stdout.
			kunlog.SetOutput(io.Discard)
		}
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	out := &lumberjack.Logger{
		Filename:   cfg.Log,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		LocalTime:  true,
	}
	kunlog.SetOutput(out)
	return out, nil
}

func parseLevel(level string) kunlog.Level {
	switch level {
	case "trace":
		return kunlog.TraceLevel
	case "debug":
		return kunlog.DebugLevel
	case "warn":
		return kunlog.WarnLevel
	case "error":
		return kunlog.ErrorLevel
	default:
		return kunlog.InfoLevel
	}
}

func (l *Logger) prefix() string {
	return fmt.Sprintf("[waitlist:%s]", l.tag)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if dev.Load() {
		gray.Fprintf(console, "  → %s %s\n", l.prefix(), msg)
	}
	kunlog.Trace("%s %s", l.prefix(), msg)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if dev.Load() {
		gray.Fprintf(console, "  • %s %s\n", l.prefix(), msg)
	}
	kunlog.Debug("%s %s", l.prefix(), msg)
}

func (l *Logger) Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if dev.Load() {
		cyan.Fprintf(console, "  ℹ %s %s\n", l.prefix(), msg)
	}
	kunlog.Info("%s %s", l.prefix(), msg)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if dev.Load() {
		yellow.Fprintf(console, "  ⚠ %s %s\n", l.prefix(), msg)
	}
	kunlog.Warn("%s %s", l.prefix(), msg)
}

func (l *Logger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if dev.Load() {
		red.Fprintf(console, "  ✗ %s %s\n", l.prefix(), msg)
	}
	kunlog.Error("%s %s", l.prefix(), msg)
}

// IsDev returns true when running in development mode.
func IsDev() bool {
	return dev.Load()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
