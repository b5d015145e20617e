package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. Init must be called before first use.
var Log *zap.Logger

// Init builds the global logger.
// Development mode emits colored console output at debug level;
// production mode emits JSON at info level.
func Init(isDevelopment bool) error {
	var cfg zap.Config

	if isDevelopment {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	log, err := cfg.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if err != nil {
		return err
	}

	Log = log
	return nil
}

// Sync flushes buffered entries. Call before exit.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
