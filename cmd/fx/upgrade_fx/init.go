package upgrade_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"modelflow/internal/plans"
	"modelflow/internal/repositories"
	"modelflow/internal/services"
)

var Module = fx.Provide(
	provideUpgradeService, provideUpgradeRequestRepo)

func provideUpgradeRequestRepo(db *gorm.DB) repositories.UpgradeRequestRepository {
	return repositories.NewUpgradeRequestRepository(db)
}

func provideUpgradeService(
	requestRepo repositories.UpgradeRequestRepository,
	assignmentRepo repositories.PlanAssignmentRepository,
	catalog *plans.Catalog,
	mailService services.IMailService,
) services.UpgradeServiceInterface {
	return services.NewUpgradeService(requestRepo, assignmentRepo, catalog, mailService)
}
