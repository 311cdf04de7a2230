// Package log provides structured logging for the wallet service.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Component loggers.
var (
	RPC      zerolog.Logger
	Wallet   zerolog.Logger
	Balance  zerolog.Logger
	Transfer zerolog.Logger
	Store    zerolog.Logger
	API      zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stderr, "info")
	initComponentLoggers()
}

// Init configures the global logger. When file is non-empty, logs go to
// both the console and the file; the file is always JSON and is created
// with 0600 permissions. The returned close function releases the file and
// is never nil.
func Init(level string, jsonOutput bool, file string) (func() error, error) {
	var console io.Writer = os.Stderr
	if !jsonOutput {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	closeFn := func() error { return nil }
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return closeFn, err
		}
		Logger = newLogger(zerolog.MultiLevelWriter(console, f), level)
		closeFn = f.Close
	} else {
		Logger = newLogger(console, level)
	}

	initComponentLoggers()
	return closeFn, nil
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}, level)
}

// NewJSONLogger creates a JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(w, level)
}

// SetOutput redirects all loggers to w as JSON. Used by tests.
func SetOutput(w io.Writer, level string) {
	Logger = NewJSONLogger(w, level)
	initComponentLoggers()
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func initComponentLoggers() {
	RPC = WithComponent("rpc")
	Wallet = WithComponent("wallet")
	Balance = WithComponent("balance")
	Transfer = WithComponent("transfer")
	Store = WithComponent("store")
	API = WithComponent("api")
}

// WithComponent returns a logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
