// Package logging configures the engine's single default logger, in the
// teacher's style of a package-level Log() accessor rather than passing a
// logger through every constructor.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var (
	mu     sync.RWMutex
	logger = newDefault()
)

// newDefault builds a production logger: JSON to stderr, INFO and above.
// When stderr is an interactive terminal (local development), the console
// encoder is used instead so output stays readable.
func newDefault() *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if term.IsTerminal(int(os.Stderr.Fd())) {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.InfoLevel)
	return zap.New(core)
}

// Log returns the current default logger.
func Log() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLevel swaps the default logger for a JSON one at the given level.
// Exposed so callers such as tests can change verbosity without plumbing
// a logger through every constructor.
func SetLevel(level zapcore.Level) {
	mu.Lock()
	defer mu.Unlock()
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stderr), level)
	logger = zap.New(core)
}
