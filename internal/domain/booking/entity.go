package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotPending     = errors.New("reservation is not pending")
	ErrNotCancellable = errors.New("reservation is not cancellable")
)

// RefundDeniedExpired is recorded on a cancellation whose refund was
// rejected because the package expired between booking and cancelling.
const RefundDeniedExpired = "package expired before refund"

// Reservation binds one client to one slot, drawing exactly one credit
// from one package. Transitions: pending -> confirmed -> cancelled;
// nothing leaves cancelled.
type Reservation struct {
	id             uuid.UUID
	clientID       uuid.UUID
	slotID         uuid.UUID
	packageID      uuid.UUID
	status         Status
	createdAt      time.Time
	cancelledAt    *time.Time
	cancelReason   *string
	creditRefunded bool
	refundDenied   *string
}

// NewReservation creates the in-flight pending reservation used by the
// booking saga. It becomes observable only once Confirm succeeds.
func NewReservation(clientID, slotID, packageID uuid.UUID, now time.Time) *Reservation {
	return &Reservation{
		id:        uuid.New(),
		clientID:  clientID,
		slotID:    slotID,
		packageID: packageID,
		status:    StatusPending,
		createdAt: now,
	}
}

func ReconstructReservation(
	id, clientID, slotID, packageID uuid.UUID,
	status Status,
	createdAt time.Time,
	cancelledAt *time.Time,
	cancelReason *string,
	creditRefunded bool,
	refundDenied *string,
) *Reservation {
	return &Reservation{
		id:             id,
		clientID:       clientID,
		slotID:         slotID,
		packageID:      packageID,
		status:         status,
		createdAt:      createdAt,
		cancelledAt:    cancelledAt,
		cancelReason:   cancelReason,
		creditRefunded: creditRefunded,
		refundDenied:   refundDenied,
	}
}

func (r *Reservation) Confirm() error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusConfirmed
	return nil
}

// Cancel moves a confirmed reservation to its terminal state. refunded
// records whether the credit made it back to the package; refundDenied
// carries the audit note when it did not.
func (r *Reservation) Cancel(now time.Time, reason *string, refunded bool, refundDenied *string) error {
	if r.status != StatusConfirmed {
		return ErrNotCancellable
	}
	r.status = StatusCancelled
	r.cancelledAt = &now
	r.cancelReason = reason
	r.creditRefunded = refunded
	r.refundDenied = refundDenied
	return nil
}

// RefundEligible reports whether a cancellation at now still earns the
// credit back: strictly before slot start minus the studio cutoff.
func RefundEligible(now, slotStartsAt time.Time, cutoff time.Duration) bool {
	return now.Before(slotStartsAt.Add(-cutoff))
}

func (r *Reservation) IsConfirmed() bool {
	return r.status == StatusConfirmed
}

func (r *Reservation) IsCancelled() bool {
	return r.status == StatusCancelled
}

func (r *Reservation) ID() uuid.UUID           { return r.id }
func (r *Reservation) ClientID() uuid.UUID     { return r.clientID }
func (r *Reservation) SlotID() uuid.UUID       { return r.slotID }
func (r *Reservation) PackageID() uuid.UUID    { return r.packageID }
func (r *Reservation) Status() Status          { return r.status }
func (r *Reservation) CreatedAt() time.Time    { return r.createdAt }
func (r *Reservation) CancelledAt() *time.Time { return r.cancelledAt }
func (r *Reservation) CancelReason() *string   { return r.cancelReason }
func (r *Reservation) CreditRefunded() bool    { return r.creditRefunded }
func (r *Reservation) RefundDenied() *string   { return r.refundDenied }
