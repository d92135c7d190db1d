// Package zlog wraps a process-wide zap logger. Output goes to stderr because
// stdout carries the MCP stdio transport.
package zlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures Init.
type Options struct {
	Level string // debug, info, warn, error
	File  string // optional rotating log file
	// Stderr overrides the console sink, mainly for tests.
	Stderr io.Writer
}

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init replaces the global logger. The returned func flushes buffered entries.
func Init(opts Options) (func(), error) {
	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var console io.Writer = os.Stderr
	if opts.Stderr != nil {
		console = opts.Stderr
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), level),
	}
	if opts.File != "" {
		rotate := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotate), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	mu.Lock()
	logger = l
	mu.Unlock()
	return func() { _ = l.Sync() }, nil
}

// L returns the global logger without the helper caller skip.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.WithOptions(zap.AddCallerSkip(-1))
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, fields ...zap.Field) { current().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { current().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { current().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { current().Error(msg, fields...) }
