package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"modelflow/internal/infra"
)

var Module = fx.Provide(
	provideDB)

func provideDB(lc fx.Lifecycle) *gorm.DB {
	db := infra.InitPostgresql()

	lc.Append(fx.StopHook(func() {
		infra.ClosePostgresql(db)
	}))

	return db
}
