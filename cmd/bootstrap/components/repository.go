package components

import (
	"studio-booking/internal/infra/readstore"
	repo_impl "studio-booking/internal/infra/repository"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewSlotRepository,
			fx.As(new(commands.SlotRegistry)),
		),
		fx.Annotate(
			repo_impl.NewPackageRepository,
			fx.As(new(commands.PackageLedger)),
		),
		fx.Annotate(
			repo_impl.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewCalendarReadStore,
			fx.As(new(queries.CalendarReadStore)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewPackageReadStore,
			fx.As(new(queries.PackageReadStore)),
		),
		fx.Annotate(
			NewWeekCache,
			fx.As(new(queries.WeekCache)),
			fx.As(new(commands.CalendarInvalidator)),
		),
	),
)

func NewWeekCache(rdb *redis.Client, cfg config.Config) *readstore.RedisWeekCache {
	return readstore.NewRedisWeekCache(rdb, cfg.Redis)
}
