package components

import (
	"studio-booking/internal/handler"
	"studio-booking/internal/handler/api"
	"studio-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewCalendarHandler,
		api.NewPackageHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
