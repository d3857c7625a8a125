package config_fx

import (
	"go.uber.org/fx"
	"immoportal/internal/services"
	"immoportal/pkg/config"
	"immoportal/pkg/utils"
)

const serviceName = "immoportal"

var Module = fx.Provide(
	provideConfig, provideClock, provideTokenIssuer, provideProvisioningTerms)

func provideConfig() (*config.Config, error) {
	return config.Load(serviceName)
}

func provideClock(cfg *config.Config) utils.Clock {
	return utils.NewClock(utils.LoadLocation(cfg.Business.Timezone))
}

func provideTokenIssuer(cfg *config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
}

func provideProvisioningTerms(cfg *config.Config) services.ProvisioningTerms {
	return services.ProvisioningTerms{
		Months:    cfg.Business.DefaultSubscriptionMonths,
		AmountEUR: cfg.Business.DefaultSubscriptionAmount,
	}
}
