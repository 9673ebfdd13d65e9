package components

import (
	"storefront/internal/handler"
	"storefront/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCatalogHandler,
		api.NewCartHandler,
		api.NewOrderHandler,
		api.NewEventsHandler,
	),
	fx.Invoke(handler.NewRouter),
)
