package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"modelflow/internal/plans"
	"modelflow/internal/repositories"
	"modelflow/internal/services"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(accountRepo repositories.AccountRepository, catalog *plans.Catalog) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, catalog)
}
