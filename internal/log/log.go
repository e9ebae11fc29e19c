// Package log builds the run logger. The export driver logs every parameter
// mutation, recompute warning, and restore toleration here; the console UI
// stays separate so the log can be redirected without losing the progress
// display.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a console logger on stderr. Verbose enables debug-level output
// (per-parameter mutations, per-file exports).
func New(verbose bool) *zap.SugaredLogger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)
	return zap.New(core).Sugar().Named("paramexport")
}

// Nop returns a logger that discards everything. Used by tests and by code
// paths that run before logging is configured.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
