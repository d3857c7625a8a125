package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"immoportal/internal/repositories"
	"immoportal/internal/services"
	mem "immoportal/pkg/memcache"
	"immoportal/pkg/utils"
)

var Module = fx.Provide(
	provideAccountRepo, provideAccessGate, provideAccountService, provideClientService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccessGate(accountRepo repositories.AccountRepository, log *zap.Logger) services.AccessGateInterface {
	return services.NewAccessGate(accountRepo, log.Named("access"))
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	tokens *utils.TokenIssuer,
	store mem.TTLStore,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, tokens, store, log.Named("account"))
}

func provideClientService(
	accountRepo repositories.AccountRepository,
	criteriaRepo repositories.SearchCriteriaRepository,
	subRepo repositories.SubscriptionRepository,
	requestRepo repositories.ContactRequestRepository,
	propertyRepo repositories.PropertyRepository,
	subscription services.SubscriptionServiceInterface,
	terms services.ProvisioningTerms,
	clock utils.Clock,
	log *zap.Logger,
) services.ClientServiceInterface {
	return services.NewClientService(accountRepo, criteriaRepo, subRepo, requestRepo, propertyRepo,
		subscription, terms, clock, log.Named("clients"))
}
