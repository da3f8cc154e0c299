// Package notifier forwards domain events to an external delivery
// collaborator. Emission is fire-and-forget: a slow or failing delivery
// channel never delays or fails a booking.
package notifier

import (
	"context"
	"log/slog"
	"sync"

	"studio-booking/internal/domain/event"
)

// Delivery is the external collaborator that actually gets the event to
// the client (broker, email bridge, polling feed).
type Delivery interface {
	Deliver(ctx context.Context, e event.Event) error
}

const defaultBuffer = 256

// Emitter decouples the reservation engine from delivery I/O with a
// buffered channel drained by a single background worker.
type Emitter struct {
	delivery Delivery
	ch       chan event.Event
	stop     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewEmitter(delivery Delivery) *Emitter {
	return &Emitter{
		delivery: delivery,
		ch:       make(chan event.Event, defaultBuffer),
		stop:     make(chan struct{}),
	}
}

func (e *Emitter) Start() {
	e.wg.Add(1)
	go e.run()
}

// Emit never blocks: when the buffer is full the event is dropped with a
// warning. Notification loss is acceptable, booking latency is not.
func (e *Emitter) Emit(ev event.Event) {
	select {
	case e.ch <- ev:
	default:
		slog.Warn("notification buffer full, dropping event",
			"kind", string(ev.Kind),
			"client_id", ev.ClientID.String())
	}
}

// Close drains buffered events, then stops the worker.
func (e *Emitter) Close() {
	e.once.Do(func() {
		close(e.stop)
		e.wg.Wait()
	})
}

func (e *Emitter) run() {
	defer e.wg.Done()
	for {
		select {
		case ev := <-e.ch:
			e.deliver(ev)
		case <-e.stop:
			for {
				select {
				case ev := <-e.ch:
					e.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

// Delivery failures are logged and swallowed, never propagated.
func (e *Emitter) deliver(ev event.Event) {
	if err := e.delivery.Deliver(context.Background(), ev); err != nil {
		slog.Warn("notification delivery failed",
			"kind", string(ev.Kind),
			"client_id", ev.ClientID.String(),
			"error", err.Error())
	}
}
