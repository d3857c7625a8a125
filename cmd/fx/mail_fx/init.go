package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"immoportal/internal/services"
	"immoportal/pkg/config"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) services.IMailService {
	smtpCfg := services.SMTPConfig{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port, // 587 for STARTTLS; 465 with UseSSL
		Username:   cfg.Mail.Username,
		Password:   cfg.Mail.Password,
		From:       cfg.Mail.From,
		FromName:   cfg.Mail.FromName,
		UseSSL:     cfg.Mail.UseSSL,
		RequireTLS: cfg.Server.Env == "production",

		AppName:    cfg.Mail.FromName,
		AppBaseURL: cfg.Mail.AppBaseURL,
	}
	if smtpCfg.Host == "" {
		log.Info("SMTP_HOST not set; decision emails are disabled")
	}
	return services.NewMailService(smtpCfg)
}
