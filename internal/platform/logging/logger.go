package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/devops-learning/internal/platform/timeutil"
)

var (
	loggerOnce sync.Once
	loggerErr  error

	// level is shared by every core built from the root logger, so Configure
	// can change it after handlers captured a logger.
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	mu         sync.RWMutex
	rootLogger *zap.Logger
	baseLogger *zap.Logger
)

// Options tune the process logger. The zero value keeps the info level and
// writes no service context.
type Options struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string
	// Service and Version populate the Cloud Logging serviceContext used by
	// Error Reporting to group entries.
	Service string
	Version string
}

// Configure applies opts to the process logger. It can be called more than
// once; the latest call wins.
func Configure(opts Options) error {
	loggerOnce.Do(initLogger)

	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		level.SetLevel(lvl)
	}

	mu.Lock()
	defer mu.Unlock()
	baseLogger = rootLogger
	if opts.Service != "" {
		baseLogger = rootLogger.With(zap.Dict("serviceContext",
			zap.String("service", opts.Service),
			zap.String("version", opts.Version),
		))
	}
	return nil
}

func initLogger() {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig = cloudEncoderConfig()

	rootLogger, loggerErr = cfg.Build(zap.AddCaller())
	if loggerErr != nil {
		rootLogger = zap.NewNop()
	}
	baseLogger = rootLogger
}

// cloudEncoderConfig renames zap's keys to the ones Cloud Logging parses from
// structured stdout.
func cloudEncoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = encodeTimeMicros
	enc.LevelKey = "severity"
	enc.EncodeLevel = encodeSeverity
	enc.MessageKey = "message"
	enc.CallerKey = "caller"
	return enc
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

// encodeSeverity maps zap levels to Cloud Logging severity names.
func encodeSeverity(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	severity := "DEFAULT"
	switch l {
	case zapcore.DebugLevel:
		severity = "DEBUG"
	case zapcore.InfoLevel:
		severity = "INFO"
	case zapcore.WarnLevel:
		severity = "WARNING"
	case zapcore.ErrorLevel:
		severity = "ERROR"
	case zapcore.DPanicLevel:
		severity = "CRITICAL"
	case zapcore.PanicLevel:
		severity = "ALERT"
	case zapcore.FatalLevel:
		severity = "EMERGENCY"
	}
	enc.AppendString(severity)
}

// Logger returns the process-wide logger, including the service context once
// Configure has set one.
func Logger() *zap.Logger {
	loggerOnce.Do(initLogger)
	mu.RLock()
	defer mu.RUnlock()
	return baseLogger
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	loggerOnce.Do(initLogger)
	return rootLogger.Sync()
}

// Err reports initialization failure, if any.
func Err() error {
	loggerOnce.Do(initLogger)
	return loggerErr
}
