package commands

import (
	"context"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/event"
	"studio-booking/internal/domain/pack"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types.
type SlotSnapshot struct {
	ID           uuid.UUID
	Title        string
	InstructorID uuid.UUID
	StartsAt     time.Time
	Duration     time.Duration
	Capacity     int
	Occupied     int
	Retired      bool
}

type PackageSnapshot struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Total       int
	Remaining   int
	ActivatedAt time.Time
	ExpiresAt   time.Time
}

// SlotRegistry owns per-slot capacity. TryReserveCapacity and
// ReleaseCapacity must be linearizable per slot: two concurrent reserves
// against one remaining seat yield exactly one success.
type SlotRegistry interface {
	GetSlot(ctx context.Context, id uuid.UUID) (*SlotSnapshot, error)
	// TryReserveCapacity atomically checks occupied < capacity and
	// increments. Fails closed with slot.ErrSlotFull, slot.ErrSlotInPast or
	// an infra NOT_FOUND error.
	TryReserveCapacity(ctx context.Context, slotID uuid.UUID, now time.Time) error
	// ReleaseCapacity decrements occupancy, floored at zero.
	ReleaseCapacity(ctx context.Context, slotID uuid.UUID) error
}

// PackageLedger owns a client's credits. TryDebitCredit must be
// linearizable per package.
type PackageLedger interface {
	// ActivePackagesFor returns the client's active packages ordered by
	// soonest expiry first (earliest-expiry-first allocation policy).
	ActivePackagesFor(ctx context.Context, clientID uuid.UUID, now time.Time) ([]*PackageSnapshot, error)
	// TryDebitCredit atomically consumes one credit and reports the credits
	// left. Fails with pack.ErrNoCredits, pack.ErrExpired or NOT_FOUND.
	TryDebitCredit(ctx context.Context, packageID uuid.UUID, now time.Time) (remaining int, err error)
	// RefundCredit returns one credit unless the package has expired
	// (pack.ErrExpired); the forfeiture policy rejects refunds after expiry.
	RefundCredit(ctx context.Context, packageID uuid.UUID, now time.Time) error
	Grant(ctx context.Context, p *pack.Package) error
}

type ReservationRepository interface {
	// Create persists a confirmed reservation. A CONFLICT error signals a
	// concurrent confirmed reservation for the same (client, slot) pair.
	Create(ctx context.Context, r *booking.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
	HasConfirmed(ctx context.Context, clientID, slotID uuid.UUID) (bool, error)
	Update(ctx context.Context, r *booking.Reservation) error
}

// EventEmitter dispatches domain events after the transaction commits.
// Emit must never block on delivery I/O.
type EventEmitter interface {
	Emit(e event.Event)
}

// CalendarInvalidator drops cached week views once committed state
// changes, so calendar reads only ever serve committed occupancy.
type CalendarInvalidator interface {
	Invalidate(ctx context.Context)
}
