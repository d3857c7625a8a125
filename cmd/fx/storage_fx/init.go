package storage_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"immoportal/internal/storage"
	"immoportal/pkg/config"
)

var Module = fx.Provide(provideObjectStore)

func provideObjectStore(cfg *config.Config, log *zap.Logger) (storage.ObjectStore, error) {
	store, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	if _, ok := store.(*storage.OSSStore); !ok {
		log.Warn("OSS_* settings incomplete; image uploads and signed URLs are disabled")
	}
	return store, nil
}
