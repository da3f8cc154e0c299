package notifier

import (
	"context"
	"log/slog"

	"studio-booking/internal/domain/event"
)

// LogDelivery writes events to the structured log. It stands in for the
// broker in local development and tests.
type LogDelivery struct{}

func NewLogDelivery() *LogDelivery {
	return &LogDelivery{}
}

func (d *LogDelivery) Deliver(_ context.Context, e event.Event) error {
	slog.Info("notification",
		"kind", string(e.Kind),
		"client_id", e.ClientID.String(),
		"reservation_id", e.ReservationID.String(),
		"package_id", e.PackageID.String(),
		"credits_remaining", e.CreditsRemaining,
		"refund_occurred", e.RefundOccurred)
	return nil
}
