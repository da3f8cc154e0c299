// Package event defines the domain events the reservation engine emits
// after a transaction commits. Delivery is best-effort and decoupled from
// booking correctness.
package event

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindReservationConfirmed Kind = "reservation.confirmed"
	KindReservationCancelled Kind = "reservation.cancelled"
	KindPackageLowCredit     Kind = "package.low_credit"
)

type Event struct {
	Kind             Kind      `json:"kind"`
	ReservationID    uuid.UUID `json:"reservation_id,omitempty"`
	ClientID         uuid.UUID `json:"client_id"`
	SlotID           uuid.UUID `json:"slot_id,omitempty"`
	PackageID        uuid.UUID `json:"package_id"`
	CreditsRemaining int       `json:"credits_remaining"`
	RefundOccurred   bool      `json:"refund_occurred,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
