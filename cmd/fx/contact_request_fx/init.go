package contact_request_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"immoportal/internal/repositories"
	"immoportal/internal/services"
	"immoportal/pkg/utils"
)

var Module = fx.Provide(provideContactRequestRepo, provideContactRequestService)

func provideContactRequestRepo(db *gorm.DB) repositories.ContactRequestRepository {
	return repositories.NewContactRequestRepository(db)
}

func provideContactRequestService(
	requestRepo repositories.ContactRequestRepository,
	propertyRepo repositories.PropertyRepository,
	accountRepo repositories.AccountRepository,
	subscription services.SubscriptionServiceInterface,
	mail services.IMailService,
	clock utils.Clock,
	log *zap.Logger,
) services.ContactRequestServiceInterface {
	return services.NewContactRequestService(requestRepo, propertyRepo, accountRepo, subscription, mail, clock, log.Named("requests"))
}
