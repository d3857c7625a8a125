package criteria_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"immoportal/internal/repositories"
	"immoportal/internal/services"
)

var Module = fx.Provide(provideCriteriaRepo, provideCriteriaService)

func provideCriteriaRepo(db *gorm.DB) repositories.SearchCriteriaRepository {
	return repositories.NewSearchCriteriaRepository(db)
}

func provideCriteriaService(
	criteriaRepo repositories.SearchCriteriaRepository,
	propertyRepo repositories.PropertyRepository,
	accountRepo repositories.AccountRepository,
	subscription services.SubscriptionServiceInterface,
	images services.ImageServiceInterface,
	log *zap.Logger,
) services.CriteriaServiceInterface {
	return services.NewCriteriaService(criteriaRepo, propertyRepo, accountRepo, subscription, images, log.Named("criteria"))
}
