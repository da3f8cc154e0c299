package bootstrap

import (
	"context"

	"studio-booking/internal/notifier"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewDelivery,
		NewEmitter,
		func(e *notifier.Emitter) commands.EventEmitter { return e },
	),
)

func NewDelivery(lc fx.Lifecycle, cfg config.Config) (notifier.Delivery, error) {
	if cfg.AMQP.URL == "" {
		return notifier.NewLogDelivery(), nil
	}

	delivery, cleanup, err := notifier.NewAMQPDelivery(cfg.AMQP)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return delivery, nil
}

func NewEmitter(lc fx.Lifecycle, delivery notifier.Delivery) *notifier.Emitter {
	emitter := notifier.NewEmitter(delivery)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			emitter.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			emitter.Close()
			return nil
		},
	})

	return emitter
}
