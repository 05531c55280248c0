package logger

import (
	"context"

	"ainews-console/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Build creates the console logger. When cfg.LogFile is set every entry is
// also appended to the activity file; the returned close func flushes it.
func Build(cfg *config.Config) (*zap.Logger, func() error, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, err
	}

	if cfg.LogFile == "" {
		return baseLogger, func() error {
			_ = baseLogger.Sync()
			return nil
		}, nil
	}

	writer, err := OpenActivityWriter(cfg.LogFile, cfg.AppId)
	if err != nil {
		return nil, nil, err
	}

	finalCore := NewActivityCore(baseLogger.Core(), writer)
	logger := zap.New(finalCore, zap.AddCaller())

	closeFn := func() error {
		_ = logger.Sync()
		return writer.Close()
	}
	return logger, closeFn, nil
}

// NewLogger is the fx constructor; the activity file is closed on stop.
func NewLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, closeFn, err := Build(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closeFn()
		},
	})

	return logger, nil
}
