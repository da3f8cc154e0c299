//go:build unit

package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"studio-booking/internal/domain/slot"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRegistryNotFound(t *testing.T) {
	registry := memory.NewSlotRegistry()

	_, err := registry.GetSlot(context.Background(), uuid.New())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestSlotRegistrySnapshotIsDetached(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	registry := memory.NewSlotRegistry()

	s, err := slot.NewClassSlot("Jump Board", uuid.New(), now.Add(24*time.Hour), 50*time.Minute, 6, now)
	require.NoError(t, err)
	registry.Add(s)

	before, err := registry.GetSlot(ctx, s.ID())
	require.NoError(t, err)
	require.NoError(t, registry.TryReserveCapacity(ctx, s.ID(), now))

	// The earlier snapshot does not see later occupancy changes.
	assert.Equal(t, 0, before.Occupied)
	after, err := registry.GetSlot(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, after.Occupied)
}

func TestSlotRegistryConcurrentReserve(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	registry := memory.NewSlotRegistry()

	const capacity = 4
	s, err := slot.NewClassSlot("Jump Board", uuid.New(), now.Add(24*time.Hour), 50*time.Minute, capacity, now)
	require.NoError(t, err)
	registry.Add(s)

	var successes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := registry.TryReserveCapacity(ctx, s.ID(), now); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(capacity), successes.Load())
	snap, err := registry.GetSlot(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, capacity, snap.Occupied)
}
