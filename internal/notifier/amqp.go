package notifier

import (
	"context"
	"encoding/json"
	"time"

	"studio-booking/internal/domain/event"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPDelivery publishes events as persistent JSON messages to a durable
// queue on the default exchange.
type AMQPDelivery struct {
	conn  *amqp.Connection
	queue string
}

func NewAMQPDelivery(cfg config.AMQPConfig) (*AMQPDelivery, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "amqp dial failed")
	}

	// Declare once up front so a misconfigured broker fails at startup,
	// not on the first booking.
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "amqp channel open failed")
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "amqp queue declare failed")
	}
	_ = ch.Close()

	cleanup := func() { _ = conn.Close() }
	return &AMQPDelivery{conn: conn, queue: cfg.Queue}, cleanup, nil
}

func (d *AMQPDelivery) Deliver(ctx context.Context, e event.Event) error {
	ch, err := d.conn.Channel()
	if err != nil {
		return errs.Wrap(err, "amqp channel open failed")
	}
	defer func() { _ = ch.Close() }()

	body, err := json.Marshal(e)
	if err != nil {
		return errs.Wrap(err, "marshal event failed")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(e.Kind),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", d.queue, false, false, pub); err != nil {
		return errs.Wrap(err, "amqp publish failed")
	}
	return nil
}
