package repository

import (
	"context"
	"errors"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgErrCodeUniqueViolation = "23505"

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// Create persists a confirmed reservation. The partial unique index on
// (client_id, slot_id) WHERE status = 'confirmed' turns a concurrent
// double-book into a CONFLICT the engine compensates for.
func (r *ReservationRepository) Create(ctx context.Context, res *booking.Reservation) error {
	const q = `
		INSERT INTO reservations
			(id, client_id, slot_id, package_id, status, created_at,
			 cancelled_at, cancel_reason, credit_refunded, refund_denied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, q,
		res.ID(), res.ClientID(), res.SlotID(), res.PackageID(),
		res.Status().String(), res.CreatedAt(),
		res.CancelledAt(), res.CancelReason(), res.CreditRefunded(), res.RefundDenied())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("confirmed reservation already exists for client and slot", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	const q = `
		SELECT id, client_id, slot_id, package_id, status, created_at,
		       cancelled_at, cancel_reason, credit_refunded, refund_denied
		FROM reservations WHERE id = $1`

	row := r.pool.QueryRow(ctx, q, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) HasConfirmed(ctx context.Context, clientID, slotID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE client_id = $1 AND slot_id = $2 AND status = 'confirmed'
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, clientID, slotID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check confirmed reservation", err)
	}
	return exists, nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *booking.Reservation) error {
	const q = `
		UPDATE reservations
		SET status = $2, cancelled_at = $3, cancel_reason = $4,
		    credit_refunded = $5, refund_denied = $6
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q,
		res.ID(), res.Status().String(), res.CancelledAt(), res.CancelReason(),
		res.CreditRefunded(), res.RefundDenied())
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanReservation(row pgx.Row) (*booking.Reservation, error) {
	var (
		id, clientID, slotID, packageID uuid.UUID
		status                          string
		createdAt                       time.Time
		cancelledAt                     *time.Time
		cancelReason                    *string
		creditRefunded                  bool
		refundDenied                    *string
	)
	err := row.Scan(&id, &clientID, &slotID, &packageID, &status, &createdAt,
		&cancelledAt, &cancelReason, &creditRefunded, &refundDenied)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructReservation(
		id, clientID, slotID, packageID,
		booking.Status(status), createdAt,
		cancelledAt, cancelReason, creditRefunded, refundDenied,
	), nil
}
