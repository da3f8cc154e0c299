package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/event"
	"studio-booking/internal/domain/pack"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/infra"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrAlreadyBooked       = errs.New("client already booked this slot")
	ErrSlotNotFound        = errs.New("slot not found")
	ErrSlotFull            = errs.New("slot is full")
	ErrSlotInPast          = errs.New("slot has already started")
	ErrNoValidPackage      = errs.New("no valid package")
	ErrNoCreditsRemaining  = errs.New("no credits remaining")
	ErrPackageExpired      = errs.New("package expired")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrNotCancellable      = errs.New("reservation is not cancellable")
	ErrStorageFailure      = errs.New("storage operation failed")
)

type BookingResult struct {
	Reservation      *booking.Reservation
	CreditsRemaining int
}

type CancelResult struct {
	Reservation    *booking.Reservation
	RefundOccurred bool
	// Replayed is true when the reservation was already cancelled and the
	// call returned the existing terminal state without touching anything.
	Replayed bool
}

type BookingCommands interface {
	// Book runs the reservation saga: duplicate check, earliest-expiry-first
	// package selection, capacity before credit, compensation on failure.
	Book(ctx context.Context, clientID, slotID uuid.UUID) (*BookingResult, error)
	// Cancel is idempotent: repeating it for an already-cancelled
	// reservation returns the terminal state without double-releasing.
	Cancel(ctx context.Context, reservationID uuid.UUID, reason *string) (*CancelResult, error)
}

type bookingUseCaseImpl struct {
	registry     SlotRegistry
	ledger       PackageLedger
	reservations ReservationRepository
	emitter      EventEmitter
	calendar     CalendarInvalidator
	clock        clock.Clock
	policy       config.BookingConfig
}

func NewBookingCommands(
	registry SlotRegistry,
	ledger PackageLedger,
	reservations ReservationRepository,
	emitter EventEmitter,
	calendar CalendarInvalidator,
	clk clock.Clock,
	policy config.BookingConfig,
) BookingCommands {
	return &bookingUseCaseImpl{
		registry:     registry,
		ledger:       ledger,
		reservations: reservations,
		emitter:      emitter,
		calendar:     calendar,
		clock:        clk,
		policy:       policy,
	}
}

func (uc *bookingUseCaseImpl) Book(ctx context.Context, clientID, slotID uuid.UUID) (*BookingResult, error) {
	now := uc.clock.Now()

	booked, err := uc.reservations.HasConfirmed(ctx, clientID, slotID)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	if booked {
		return nil, ErrAlreadyBooked
	}

	chosen, err := uc.selectPackage(ctx, clientID, now)
	if err != nil {
		return nil, err
	}

	res := booking.NewReservation(clientID, slotID, chosen.ID, now)

	// Capacity before credit: the cheaper check runs first so a full slot
	// never costs a debit.
	if err := uc.registry.TryReserveCapacity(ctx, slotID, now); err != nil {
		return nil, mapSlotErr(err)
	}

	remaining, err := uc.ledger.TryDebitCredit(ctx, chosen.ID, now)
	if err != nil {
		// The seat is held but the credit is not: undo the capacity grab.
		// Skipping this leaks a seat, so it is retried until it sticks.
		uc.releaseWithRetry(ctx, slotID, res.ID())
		return nil, mapLedgerErr(err)
	}

	if err := res.Confirm(); err != nil {
		// Unreachable for a freshly created reservation.
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	if err := uc.reservations.Create(ctx, res); err != nil {
		uc.compensateBooking(ctx, slotID, chosen.ID, res.ID())
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrAlreadyBooked
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	uc.calendar.Invalidate(ctx)
	uc.emitter.Emit(event.Event{
		Kind:             event.KindReservationConfirmed,
		ReservationID:    res.ID(),
		ClientID:         clientID,
		SlotID:           slotID,
		PackageID:        chosen.ID,
		CreditsRemaining: remaining,
		OccurredAt:       now,
	})
	if remaining <= uc.policy.LowCreditThreshold {
		uc.emitter.Emit(event.Event{
			Kind:             event.KindPackageLowCredit,
			ClientID:         clientID,
			PackageID:        chosen.ID,
			CreditsRemaining: remaining,
			OccurredAt:       now,
		})
	}

	return &BookingResult{Reservation: res, CreditsRemaining: remaining}, nil
}

func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, reservationID uuid.UUID, reason *string) (*CancelResult, error) {
	now := uc.clock.Now()

	res, err := uc.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	// State check before any mutation keeps retried cancels from
	// double-releasing capacity or credits.
	if res.IsCancelled() {
		return &CancelResult{Reservation: res, RefundOccurred: res.CreditRefunded(), Replayed: true}, nil
	}
	if !res.IsConfirmed() {
		return nil, ErrNotCancellable
	}

	sl, err := uc.registry.GetSlot(ctx, res.SlotID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	// Occupancy frees up regardless of refund eligibility.
	if err := uc.registry.ReleaseCapacity(ctx, res.SlotID()); err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	refunded := false
	var refundDenied *string
	if booking.RefundEligible(now, sl.StartsAt, uc.policy.CancelCutoff) {
		switch err := uc.ledger.RefundCredit(ctx, res.PackageID(), now); {
		case err == nil:
			refunded = true
		case errors.Is(err, pack.ErrExpired):
			note := booking.RefundDeniedExpired
			refundDenied = &note
		default:
			// Capacity is already released; the cancellation proceeds and
			// the missing refund is flagged for manual reconciliation.
			slog.Error("refund failed, manual reconciliation required",
				"reservation_id", res.ID().String(),
				"package_id", res.PackageID().String(),
				"error", err.Error())
			note := "refund failed"
			refundDenied = &note
		}
	}

	if err := res.Cancel(now, reason, refunded, refundDenied); err != nil {
		return nil, ErrNotCancellable
	}
	if err := uc.reservations.Update(ctx, res); err != nil {
		slog.Error("cancelled reservation not persisted, manual reconciliation required",
			"reservation_id", res.ID().String(),
			"error", err.Error())
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	uc.calendar.Invalidate(ctx)
	uc.emitter.Emit(event.Event{
		Kind:           event.KindReservationCancelled,
		ReservationID:  res.ID(),
		ClientID:       res.ClientID(),
		SlotID:         res.SlotID(),
		PackageID:      res.PackageID(),
		RefundOccurred: refunded,
		OccurredAt:     now,
	})

	return &CancelResult{Reservation: res, RefundOccurred: refunded}, nil
}

// selectPackage applies the earliest-expiry-first policy: the credit
// closest to expiring is consumed first to minimize forfeited value.
func (uc *bookingUseCaseImpl) selectPackage(ctx context.Context, clientID uuid.UUID, now time.Time) (*PackageSnapshot, error) {
	pkgs, err := uc.ledger.ActivePackagesFor(ctx, clientID, now)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	for _, p := range pkgs {
		if p.Remaining > 0 {
			return p, nil
		}
	}
	return nil, ErrNoValidPackage
}

// releaseWithRetry undoes a capacity reservation whose credit debit failed.
// A leaked seat is a correctness bug, so exhaustion is logged for manual
// reconciliation instead of being surfaced to the caller.
func (uc *bookingUseCaseImpl) releaseWithRetry(ctx context.Context, slotID, reservationID uuid.UUID) {
	const maxRetries = 3
	base := 100 * time.Millisecond

	// The compensation must not be abandoned on caller cancellation, so the
	// retry loop deliberately ignores ctx.Done.
	ctx = context.WithoutCancel(ctx)
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if lastErr = uc.registry.ReleaseCapacity(ctx, slotID); lastErr == nil {
			return
		}
		slog.Warn("retrying capacity release after failed compensation",
			"attempt", attempt+1,
			"slot_id", slotID.String(),
			"error", lastErr.Error())
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<attempt) * base)
		}
	}

	slog.Error("capacity leak, manual reconciliation required",
		"slot_id", slotID.String(),
		"reservation_id", reservationID.String(),
		"error", lastErr.Error())
}

// compensateBooking rolls back both the debit and the capacity grab when
// persisting the confirmed reservation fails.
func (uc *bookingUseCaseImpl) compensateBooking(ctx context.Context, slotID, packageID, reservationID uuid.UUID) {
	now := uc.clock.Now()
	if err := uc.ledger.RefundCredit(ctx, packageID, now); err != nil {
		slog.Error("compensating refund failed, manual reconciliation required",
			"package_id", packageID.String(),
			"reservation_id", reservationID.String(),
			"error", err.Error())
	}
	uc.releaseWithRetry(ctx, slotID, reservationID)
}

func mapSlotErr(err error) error {
	switch {
	case errors.Is(err, slot.ErrSlotFull):
		return ErrSlotFull
	case errors.Is(err, slot.ErrSlotInPast), errors.Is(err, slot.ErrSlotRetired):
		return ErrSlotInPast
	case infra.IsKind(err, infra.KindNotFound):
		return ErrSlotNotFound
	default:
		return errs.Mark(err, ErrStorageFailure)
	}
}

func mapLedgerErr(err error) error {
	switch {
	case errors.Is(err, pack.ErrNoCredits):
		return ErrNoCreditsRemaining
	case errors.Is(err, pack.ErrExpired):
		return ErrPackageExpired
	case infra.IsKind(err, infra.KindNotFound):
		return ErrNoValidPackage
	default:
		return errs.Mark(err, ErrStorageFailure)
	}
}
