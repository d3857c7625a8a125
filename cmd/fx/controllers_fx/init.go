package controllers_fx

import (
	"go.uber.org/fx"
	"immoportal/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewClientAreaController),
	fx.Provide(controllers.NewAgentClientController),
	fx.Provide(controllers.NewPropertyController),
	fx.Provide(controllers.NewAgencyRequestController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewSyncController),
	fx.Provide(controllers.NewHealthController))
