// Package readstore holds the read-side postgres queries and the redis
// week cache. Everything here is strictly read-only over committed rows.
package readstore

import (
	"context"
	"time"

	"studio-booking/internal/infra"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CalendarReadStore struct {
	pool *pgxpool.Pool
}

func NewCalendarReadStore(pool *pgxpool.Pool) *CalendarReadStore {
	return &CalendarReadStore{pool: pool}
}

func (r *CalendarReadStore) SlotsInRange(ctx context.Context, from, to time.Time) ([]*queries.SlotRecord, error) {
	const q = `
		SELECT id, title, instructor_id, starts_at, duration_min, capacity, occupied, retired
		FROM class_slots
		WHERE starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at ASC`

	rows, err := r.pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots in range", err)
	}
	defer rows.Close()

	var result []*queries.SlotRecord
	for rows.Next() {
		var s queries.SlotRecord
		var durationMin int
		if err := rows.Scan(&s.ID, &s.Title, &s.InstructorID, &s.StartsAt, &durationMin,
			&s.Capacity, &s.Occupied, &s.Retired); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot", err)
		}
		s.EndsAt = s.StartsAt.Add(time.Duration(durationMin) * time.Minute)
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read slots", err)
	}
	return result, nil
}

func (r *CalendarReadStore) ConfirmedReservations(ctx context.Context, clientID uuid.UUID, from, to time.Time) (map[uuid.UUID]uuid.UUID, error) {
	const q = `
		SELECT res.slot_id, res.id
		FROM reservations res
		JOIN class_slots cs ON cs.id = res.slot_id
		WHERE res.client_id = $1 AND res.status = 'confirmed'
		  AND cs.starts_at >= $2 AND cs.starts_at < $3`

	rows, err := r.pool.Query(ctx, q, clientID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list confirmed reservations", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]uuid.UUID)
	for rows.Next() {
		var slotID, resID uuid.UUID
		if err := rows.Scan(&slotID, &resID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		result[slotID] = resID
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservations", err)
	}
	return result, nil
}
