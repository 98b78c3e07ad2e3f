package catalog_fx

import (
	"os"
	"strings"

	"go.uber.org/fx"

	"modelflow/internal/plans"
)

var Module = fx.Provide(provideCatalog)

// ADMIN_EMAILS is a comma-separated allowlist. Accounts on it act as owner
// and may use the admin surface.
func provideCatalog() *plans.Catalog {
	return plans.NewCatalog(strings.Split(os.Getenv("ADMIN_EMAILS"), ","))
}
