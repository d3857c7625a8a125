package subscription_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"immoportal/internal/repositories"
	"immoportal/internal/services"
	"immoportal/pkg/utils"
)

var Module = fx.Provide(provideSubscriptionRepo, provideSubscriptionService)

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	accountRepo repositories.AccountRepository,
	clock utils.Clock,
	log *zap.Logger,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(subRepo, accountRepo, clock, log.Named("subscriptions"))
}
