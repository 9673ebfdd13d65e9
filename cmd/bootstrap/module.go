package bootstrap

import (
	"storefront/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	CacheModule,
	components.CoreModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
