// Package repository holds the postgres implementations of the engine
// ports. Per-row linearizability comes from single conditional UPDATE
// statements; there is no cross-entity transaction here, the engine's
// saga owns cross-entity consistency.
package repository

import (
	"context"
	"errors"
	"time"

	"studio-booking/internal/domain/slot"
	"studio-booking/internal/infra"
	"studio-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func (r *SlotRepository) GetSlot(ctx context.Context, id uuid.UUID) (*commands.SlotSnapshot, error) {
	const q = `
		SELECT id, title, instructor_id, starts_at, duration_min, capacity, occupied, retired
		FROM class_slots WHERE id = $1`

	var s commands.SlotSnapshot
	var durationMin int
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&s.ID, &s.Title, &s.InstructorID, &s.StartsAt, &durationMin,
		&s.Capacity, &s.Occupied, &s.Retired,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot", err)
	}
	s.Duration = time.Duration(durationMin) * time.Minute
	return &s, nil
}

// TryReserveCapacity checks and increments in one statement; the row lock
// makes two concurrent reserves of the last seat yield one success.
func (r *SlotRepository) TryReserveCapacity(ctx context.Context, slotID uuid.UUID, now time.Time) error {
	const q = `
		UPDATE class_slots
		SET occupied = occupied + 1
		WHERE id = $1 AND NOT retired AND starts_at > $2 AND occupied < capacity`

	tag, err := r.pool.Exec(ctx, q, slotID, now)
	if err != nil {
		return infra.WrapRepoErr("failed to reserve capacity", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.classifyReserveFailure(ctx, slotID, now)
}

// classifyReserveFailure re-reads the row to report why the conditional
// update matched nothing. The answer is advisory; the update above is the
// only authority on whether a seat was taken.
func (r *SlotRepository) classifyReserveFailure(ctx context.Context, slotID uuid.UUID, now time.Time) error {
	s, err := r.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}
	switch {
	case s.Retired:
		return slot.ErrSlotRetired
	case !s.StartsAt.After(now):
		return slot.ErrSlotInPast
	default:
		return slot.ErrSlotFull
	}
}

func (r *SlotRepository) ReleaseCapacity(ctx context.Context, slotID uuid.UUID) error {
	const q = `
		UPDATE class_slots
		SET occupied = occupied - 1
		WHERE id = $1 AND occupied > 0`

	tag, err := r.pool.Exec(ctx, q, slotID)
	if err != nil {
		return infra.WrapRepoErr("failed to release capacity", err)
	}
	if tag.RowsAffected() == 0 {
		// Occupancy already at zero is a floor, not an error; only a
		// missing row is.
		if _, err := r.GetSlot(ctx, slotID); err != nil {
			return err
		}
	}
	return nil
}
