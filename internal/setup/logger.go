package setup

import (
	"fmt"

	"github.com/alwat83/ifyoumind/internal/setup/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLoggers builds the main application logger and a quieter database
// logger from the debug configuration.
func NewLoggers(cfg *config.Debug) (*zap.Logger, *zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	// Query logging is debug-only noise unless something fails
	dbLevel := zapcore.WarnLevel
	if level == zapcore.DebugLevel {
		dbLevel = zapcore.DebugLevel
	}

	dbCfg := zapCfg
	dbCfg.Level = zap.NewAtomicLevelAt(dbLevel)

	dbLogger, err := dbCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build database logger: %w", err)
	}

	return logger, dbLogger, nil
}
