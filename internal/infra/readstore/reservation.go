package readstore

import (
	"context"

	"studio-booking/internal/infra"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationReadStore struct {
	pool *pgxpool.Pool
}

func NewReservationReadStore(pool *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

func (r *ReservationReadStore) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*queries.ReservationView, error) {
	const q = `
		SELECT res.id, res.slot_id, cs.title, cs.starts_at, res.package_id,
		       res.status, res.created_at, res.cancelled_at, res.cancel_reason,
		       res.credit_refunded
		FROM reservations res
		JOIN class_slots cs ON cs.id = res.slot_id
		WHERE res.client_id = $1
		ORDER BY cs.starts_at DESC`

	rows, err := r.pool.Query(ctx, q, clientID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var result []*queries.ReservationView
	for rows.Next() {
		var v queries.ReservationView
		if err := rows.Scan(&v.ID, &v.SlotID, &v.SlotTitle, &v.SlotStartsAt, &v.PackageID,
			&v.Status, &v.CreatedAt, &v.CancelledAt, &v.CancelReason, &v.CreditRefunded); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation view", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation views", err)
	}
	return result, nil
}
