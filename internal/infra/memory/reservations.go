package memory

import (
	"context"
	"sync"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/infra"

	"github.com/google/uuid"
)

type pairKey struct {
	clientID uuid.UUID
	slotID   uuid.UUID
}

type ReservationStore struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*booking.Reservation
	confirmed    map[pairKey]uuid.UUID
}

func NewReservationStore() *ReservationStore {
	return &ReservationStore{
		reservations: make(map[uuid.UUID]*booking.Reservation),
		confirmed:    make(map[pairKey]uuid.UUID),
	}
}

// Create enforces at most one confirmed reservation per (client, slot):
// a concurrent duplicate surfaces as a CONFLICT, mirroring the partial
// unique index of the postgres store.
func (s *ReservationStore) Create(ctx context.Context, r *booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{clientID: r.ClientID(), slotID: r.SlotID()}
	if r.IsConfirmed() {
		if _, exists := s.confirmed[key]; exists {
			return infra.WrapRepoErr("confirmed reservation already exists for client and slot", nil, infra.KindConflict)
		}
		s.confirmed[key] = r.ID()
	}
	s.reservations[r.ID()] = cloneReservation(r)
	return nil
}

func (s *ReservationStore) FindByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return cloneReservation(r), nil
}

func (s *ReservationStore) HasConfirmed(ctx context.Context, clientID, slotID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.confirmed[pairKey{clientID: clientID, slotID: slotID}]
	return ok, nil
}

func (s *ReservationStore) Update(ctx context.Context, r *booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[r.ID()]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	key := pairKey{clientID: r.ClientID(), slotID: r.SlotID()}
	if r.IsCancelled() {
		delete(s.confirmed, key)
	}
	s.reservations[r.ID()] = cloneReservation(r)
	return nil
}

// All returns every stored reservation, for tests and tooling.
func (s *ReservationStore) All() []*booking.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*booking.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, cloneReservation(r))
	}
	return out
}

// cloneReservation keeps callers from mutating committed state in place.
func cloneReservation(r *booking.Reservation) *booking.Reservation {
	return booking.ReconstructReservation(
		r.ID(), r.ClientID(), r.SlotID(), r.PackageID(),
		r.Status(), r.CreatedAt(), r.CancelledAt(), r.CancelReason(),
		r.CreditRefunded(), r.RefundDenied(),
	)
}
