package controllers_fx

import (
	"go.uber.org/fx"

	"modelflow/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewUpgradeController),
	fx.Provide(controllers.NewAdminController))
