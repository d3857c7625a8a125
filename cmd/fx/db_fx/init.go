package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"immoportal/internal/api/controllers"
	"immoportal/internal/infra"
	"immoportal/pkg/config"
)

var Module = fx.Options(
	fx.Provide(provideDB, providePinger),
	fx.Invoke(migrate),
)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}

func providePinger(db *gorm.DB) (controllers.Pinger, error) {
	return db.DB()
}

func migrate(db *gorm.DB, log *zap.Logger) error {
	if err := infra.Migrate(db); err != nil {
		return err
	}
	log.Info("database schema up to date")
	return nil
}
