package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"immoportal/pkg/config"
	"immoportal/pkg/logger"
)

var Module = fx.Provide(provideLogger)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.InitLogger(logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return nil, err
	}
	log.Info("configuration loaded", cfg.LogFields()...)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}
