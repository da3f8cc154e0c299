//go:build unit

package slot_test

import (
	"testing"
	"time"

	"studio-booking/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlot(t *testing.T, capacity int, startsIn time.Duration, now time.Time) *slot.ClassSlot {
	t.Helper()
	s, err := slot.NewClassSlot("Reformer Basics", uuid.New(), now.Add(startsIn), 50*time.Minute, capacity, now)
	require.NoError(t, err)
	return s
}

func TestNewClassSlot(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("basic success case", func(t *testing.T) {
		s, err := slot.NewClassSlot("Reformer Basics", uuid.New(), now.Add(24*time.Hour), 50*time.Minute, 8, now)
		require.NoError(t, err)
		require.NotNil(t, s)

		assert.NotEqual(t, uuid.Nil, s.ID())
		assert.Equal(t, 8, s.Capacity())
		assert.Equal(t, 0, s.Occupied())
		assert.False(t, s.Retired())
		assert.Equal(t, now.Add(24*time.Hour).Add(50*time.Minute), s.EndsAt())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name     string
			capacity int
			duration time.Duration
			errIs    error
		}{
			{name: "zero capacity", capacity: 0, duration: time.Hour, errIs: slot.ErrInvalidCapacity},
			{name: "negative capacity", capacity: -1, duration: time.Hour, errIs: slot.ErrInvalidCapacity},
			{name: "zero duration", capacity: 5, duration: 0, errIs: slot.ErrInvalidDuration},
			{name: "capacity of one is valid", capacity: 1, duration: time.Hour},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := slot.NewClassSlot("t", uuid.New(), now.Add(time.Hour), tc.duration, tc.capacity, now)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestClassSlotReserve(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("fills up to capacity then rejects", func(t *testing.T) {
		s := newTestSlot(t, 2, 24*time.Hour, now)

		require.NoError(t, s.Reserve(now))
		require.NoError(t, s.Reserve(now))
		assert.True(t, s.IsFull())

		err := s.Reserve(now)
		assert.ErrorIs(t, err, slot.ErrSlotFull)
		assert.Equal(t, 2, s.Occupied())
	})

	t.Run("rejects started slot", func(t *testing.T) {
		s := newTestSlot(t, 2, -time.Minute, now)

		err := s.Reserve(now)
		assert.ErrorIs(t, err, slot.ErrSlotInPast)
		assert.Equal(t, 0, s.Occupied())
	})

	t.Run("slot starting exactly now counts as started", func(t *testing.T) {
		s := newTestSlot(t, 2, 0, now)

		assert.True(t, s.HasStarted(now))
		assert.ErrorIs(t, s.Reserve(now), slot.ErrSlotInPast)
	})

	t.Run("rejects retired slot", func(t *testing.T) {
		s := newTestSlot(t, 2, 24*time.Hour, now)
		s.Retire()

		assert.ErrorIs(t, s.Reserve(now), slot.ErrSlotRetired)
	})
}

func TestClassSlotRelease(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("decrements occupancy", func(t *testing.T) {
		s := newTestSlot(t, 3, 24*time.Hour, now)
		require.NoError(t, s.Reserve(now))
		require.NoError(t, s.Reserve(now))

		s.Release()
		assert.Equal(t, 1, s.Occupied())
	})

	t.Run("floored at zero", func(t *testing.T) {
		s := newTestSlot(t, 3, 24*time.Hour, now)

		s.Release()
		assert.Equal(t, 0, s.Occupied())
	})
}
