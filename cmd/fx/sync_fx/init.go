package sync_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"immoportal/internal/services"
	"immoportal/pkg/config"
)

var Module = fx.Provide(provideSyncService)

func provideSyncService(cfg *config.Config, log *zap.Logger) services.SyncServiceInterface {
	if cfg.Sync.Secret == "" {
		log.Warn("DAILY_SYNC_SECRET not set; /api/sync-daily rejects every call")
	}
	return services.NewSyncService(cfg.Sync.Secret, log.Named("sync"))
}
