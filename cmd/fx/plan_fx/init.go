package plan_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"modelflow/internal/plans"
	"modelflow/internal/repositories"
	"modelflow/internal/services"
)

var Module = fx.Provide(
	provideEntitlementService, provideAssignmentRepo)

func provideAssignmentRepo(db *gorm.DB) repositories.PlanAssignmentRepository {
	return repositories.NewPlanAssignmentRepository(db)
}

func provideEntitlementService(catalog *plans.Catalog, assignmentRepo repositories.PlanAssignmentRepository) services.EntitlementServiceInterface {
	return services.NewEntitlementService(catalog, assignmentRepo)
}
