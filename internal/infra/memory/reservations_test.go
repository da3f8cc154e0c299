//go:build unit

package memory_test

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedReservation(t *testing.T, clientID, slotID uuid.UUID, now time.Time) *booking.Reservation {
	t.Helper()
	r := booking.NewReservation(clientID, slotID, uuid.New(), now)
	require.NoError(t, r.Confirm())
	return r
}

func TestReservationStoreConflict(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	store := memory.NewReservationStore()

	clientID, slotID := uuid.New(), uuid.New()
	first := confirmedReservation(t, clientID, slotID, now)
	require.NoError(t, store.Create(ctx, first))

	dup := confirmedReservation(t, clientID, slotID, now)
	err := store.Create(ctx, dup)
	assert.True(t, infra.IsKind(err, infra.KindConflict))

	has, err := store.HasConfirmed(ctx, clientID, slotID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestReservationStoreCancelFreesPair(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	store := memory.NewReservationStore()

	clientID, slotID := uuid.New(), uuid.New()
	r := confirmedReservation(t, clientID, slotID, now)
	require.NoError(t, store.Create(ctx, r))

	require.NoError(t, r.Cancel(now, nil, true, nil))
	require.NoError(t, store.Update(ctx, r))

	has, err := store.HasConfirmed(ctx, clientID, slotID)
	require.NoError(t, err)
	assert.False(t, has)

	// A fresh confirmed booking for the same pair is allowed again.
	require.NoError(t, store.Create(ctx, confirmedReservation(t, clientID, slotID, now)))
}

func TestReservationStoreClonesState(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	store := memory.NewReservationStore()

	r := confirmedReservation(t, uuid.New(), uuid.New(), now)
	require.NoError(t, store.Create(ctx, r))

	loaded, err := store.FindByID(ctx, r.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Cancel(now, nil, false, nil))

	// Mutating the loaded copy leaves the stored state untouched.
	fresh, err := store.FindByID(ctx, r.ID())
	require.NoError(t, err)
	assert.True(t, fresh.IsConfirmed())
}
