package usage_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"modelflow/internal/repositories"
	"modelflow/internal/services"
)

var Module = fx.Provide(
	provideUsageService, provideUsageRepo)

func provideUsageRepo(db *gorm.DB) repositories.UsageRepository {
	return repositories.NewUsageRepository(db)
}

func provideUsageService(usageRepo repositories.UsageRepository) services.UsageServiceInterface {
	return services.NewUsageService(usageRepo)
}
