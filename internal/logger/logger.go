// Package logger provides process-wide logging for pdfchat.
// Messages are written through zap. Debug messages and section headers are
// only emitted in verbose mode, which the --verbose flag and the log.verbose
// setting enable.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	format            = FormatConsole
	output  io.Writer = os.Stderr
	base              = build(FormatConsole, os.Stderr, false)
)

func build(f string, w io.Writer, v bool) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if f == FormatJSON {
		encoderCfg.TimeKey = "ts"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.TimeKey = ""
		encoderCfg.CallerKey = ""
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	level := zapcore.InfoLevel
	if v {
		level = zapcore.DebugLevel
	}

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

func rebuild() {
	base = build(format, output, verbose)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetFormat selects console or JSON output. Unknown values fall back to console.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f != FormatJSON {
		f = FormatConsole
	}
	format = f
	rebuild()
}

// Zap returns the underlying logger for components that log structured fields.
func Zap() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() {
	_ = Zap().Sync()
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	Zap().Debug(fmt.Sprintf(format, args...))
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	Zap().Debug(fmt.Sprintf("=== %s ===", name))
}

// Info prints an informational message.
func Info(format string, args ...any) {
	Zap().Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	Zap().Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func Error(format string, args ...any) {
	Zap().Error(fmt.Sprintf(format, args...))
}
