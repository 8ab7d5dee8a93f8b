// Package log provides structured logging for the pixel ledger.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Component loggers.
var (
	Ledger  zerolog.Logger
	Bank    zerolog.Logger
	Host    zerolog.Logger
	RPC     zerolog.Logger
	Storage zerolog.Logger
	Wallet  zerolog.Logger
	Node    zerolog.Logger
)

const consoleTimeFormat = "15:04:05"

func init() {
	Logger = New(os.Stdout, "info", false)
	initComponentLoggers()
}

// Init initializes the global logger.
// When file is non-empty, logs are written to both the console (colored or
// JSON depending on jsonOutput) and the file, which always receives JSON.
// The returned closer releases the file.
func Init(level string, jsonOutput bool, file string) (io.Closer, error) {
	if file == "" {
		Logger = New(os.Stdout, level, jsonOutput)
		initComponentLoggers()
		return nopCloser{}, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	Logger = zerolog.New(zerolog.MultiLevelWriter(consoleWriter(os.Stdout, jsonOutput), f)).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
	initComponentLoggers()
	return f, nil
}

// SetLogger replaces the global logger and rebuilds the component loggers.
// Tests use it with zerolog.Nop() or a buffer-backed logger.
func SetLogger(l zerolog.Logger) {
	Logger = l
	initComponentLoggers()
}

// New creates a console (colored) or JSON logger writing to w.
func New(w io.Writer, level string, jsonOutput bool) zerolog.Logger {
	return zerolog.New(consoleWriter(w, jsonOutput)).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func consoleWriter(w io.Writer, jsonOutput bool) io.Writer {
	if jsonOutput {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error", "disabled", "off":
		return true
	}
	return false
}

func initComponentLoggers() {
	Ledger = WithComponent("ledger")
	Bank = WithComponent("bank")
	Host = WithComponent("host")
	RPC = WithComponent("rpc")
	Storage = WithComponent("storage")
	Wallet = WithComponent("wallet")
	Node = WithComponent("node")
}

// WithComponent returns a logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// Timed logs the duration of an operation at debug level when the
// returned func is called.
func Timed(l zerolog.Logger, op string) func() {
	start := time.Now()
	return func() {
		l.Debug().Str("operation", op).Dur("duration", time.Since(start)).Msg("timed")
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
