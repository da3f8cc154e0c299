// Package memory holds in-process implementations of the engine ports.
// Every slot, package and the reservation set carry their own lock, so
// unrelated entities never serialize on each other.
package memory

import (
	"context"
	"sync"
	"time"

	"studio-booking/internal/domain/slot"
	"studio-booking/internal/infra"
	"studio-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type slotEntry struct {
	mu   sync.Mutex
	slot *slot.ClassSlot
}

type SlotRegistry struct {
	mu    sync.RWMutex // guards the map, not the entries
	slots map[uuid.UUID]*slotEntry
}

func NewSlotRegistry() *SlotRegistry {
	return &SlotRegistry{slots: make(map[uuid.UUID]*slotEntry)}
}

func (r *SlotRegistry) Add(s *slot.ClassSlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[s.ID()] = &slotEntry{slot: s}
}

func (r *SlotRegistry) GetSlot(ctx context.Context, id uuid.UUID) (*commands.SlotSnapshot, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotSlot(e.slot), nil
}

// TryReserveCapacity is linearizable per slot: the check and the
// increment happen under the slot's own lock.
func (r *SlotRegistry) TryReserveCapacity(ctx context.Context, slotID uuid.UUID, now time.Time) error {
	e, err := r.entry(slotID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slot.Reserve(now)
}

func (r *SlotRegistry) ReleaseCapacity(ctx context.Context, slotID uuid.UUID) error {
	e, err := r.entry(slotID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slot.Release()
	return nil
}

func (r *SlotRegistry) entry(id uuid.UUID) (*slotEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return e, nil
}

func snapshotSlot(s *slot.ClassSlot) *commands.SlotSnapshot {
	return &commands.SlotSnapshot{
		ID:           s.ID(),
		Title:        s.Title(),
		InstructorID: s.InstructorID(),
		StartsAt:     s.StartsAt(),
		Duration:     s.Duration(),
		Capacity:     s.Capacity(),
		Occupied:     s.Occupied(),
		Retired:      s.Retired(),
	}
}
