package listing_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"immoportal/internal/repositories"
	"immoportal/internal/services"
	"immoportal/internal/storage"
	"immoportal/pkg/config"
	mem "immoportal/pkg/memcache"
)

var Module = fx.Provide(providePropertyRepo, provideImageService, provideListingService)

func providePropertyRepo(db *gorm.DB) repositories.PropertyRepository {
	return repositories.NewPropertyRepository(db)
}

func provideImageService(
	store storage.ObjectStore,
	propertyRepo repositories.PropertyRepository,
	cache mem.TTLStore,
	cfg *config.Config,
	log *zap.Logger,
) services.ImageServiceInterface {
	return services.NewImageService(store, propertyRepo, cache, cfg.Storage.SignedURLTTL, log.Named("images"))
}

func provideListingService(
	propertyRepo repositories.PropertyRepository,
	images services.ImageServiceInterface,
	log *zap.Logger,
) services.ListingServiceInterface {
	return services.NewListingService(propertyRepo, images, log.Named("listings"))
}
