package components

import (
	"log/slog"

	"storefront/internal/cache"
	"storefront/internal/events"
	"storefront/internal/inventory"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// CoreModule wires the domain services that sit below the use cases: the
// clock, the inventory ledger and the event fan-out.
var CoreModule = fx.Module("core",
	fx.Provide(
		clock.NewRealClock,
		NewHub,
		NewDispatcher,
		NewPostgresLedger,
		func(l *inventory.PostgresLedger) inventory.Ledger { return l },
		func(l *inventory.PostgresLedger) commands.StockWriter { return l },
		func(d *events.Dispatcher) commands.Publisher { return d },
		func(m *cache.Manager) commands.CacheInvalidator { return m },
	),
)

func NewPostgresLedger(pool *pgxpool.Pool, m *cache.Manager) *inventory.PostgresLedger {
	return inventory.NewPostgresLedger(pool, m)
}

func NewHub(cfg config.Config, logger *slog.Logger) *events.Hub {
	return events.NewHub(cfg.Events.SubscriberBuffer, logger)
}

func NewDispatcher(hub *events.Hub, cfg config.Config, logger *slog.Logger) *events.Dispatcher {
	return events.NewDispatcher(hub, cfg.Events.NotifyAdminOnUpdate, logger)
}
