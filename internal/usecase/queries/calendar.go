package queries

import (
	"context"
	"time"

	"studio-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

// SlotRecord is the committed slot row the calendar projection is built
// from. Pending reservations never reach this shape.
type SlotRecord struct {
	ID           uuid.UUID
	Title        string
	InstructorID uuid.UUID
	StartsAt     time.Time
	EndsAt       time.Time
	Capacity     int
	Occupied     int
	Retired      bool
}

type CalendarReadStore interface {
	SlotsInRange(ctx context.Context, from, to time.Time) ([]*SlotRecord, error)
	// ConfirmedReservations maps slot ID to the viewer's confirmed
	// reservation ID for slots starting in [from, to).
	ConfirmedReservations(ctx context.Context, clientID uuid.UUID, from, to time.Time) (map[uuid.UUID]uuid.UUID, error)
}

// WeekCache holds assembled week views. Implementations may answer
// stale-free only; a miss is always acceptable.
type WeekCache interface {
	Get(ctx context.Context, clientID uuid.UUID, weekStart time.Time) (*WeekView, bool)
	Set(ctx context.Context, clientID uuid.UUID, weekStart time.Time, view *WeekView)
}

// CalendarQueries is the read-only week projection used by the UI. It
// never mutates registry, ledger or engine state.
type CalendarQueries interface {
	GetWeek(ctx context.Context, clientID uuid.UUID, weekStart time.Time) (*WeekView, error)
}

type calendarQueriesImpl struct {
	store CalendarReadStore
	cache WeekCache
	clock clock.Clock
}

func NewCalendarQueries(store CalendarReadStore, cache WeekCache, clk clock.Clock) CalendarQueries {
	return &calendarQueriesImpl{store: store, cache: cache, clock: clk}
}

func (q *calendarQueriesImpl) GetWeek(ctx context.Context, clientID uuid.UUID, weekStart time.Time) (*WeekView, error) {
	weekStart = StartOfWeek(weekStart)

	if view, ok := q.cache.Get(ctx, clientID, weekStart); ok {
		return view, nil
	}

	weekEnd := weekStart.AddDate(0, 0, 7)
	slots, err := q.store.SlotsInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	mine, err := q.store.ConfirmedReservations(ctx, clientID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	view := &WeekView{WeekStart: weekStart, Slots: make([]*WeekSlotView, 0, len(slots))}
	for _, s := range slots {
		if s.Retired {
			continue
		}
		cell := &WeekSlotView{
			ID:           s.ID,
			Title:        s.Title,
			InstructorID: s.InstructorID,
			StartsAt:     s.StartsAt,
			EndsAt:       s.EndsAt,
			Capacity:     s.Capacity,
			Occupied:     s.Occupied,
			Status:       slotStatusFor(s, mine, now),
		}
		if resID, ok := mine[s.ID]; ok {
			id := resID
			cell.ReservationID = &id
		}
		view.Slots = append(view.Slots, cell)
	}

	q.cache.Set(ctx, clientID, weekStart, view)
	return view, nil
}

// slotStatusFor ranks the viewer-facing status: a started class is past
// before anything else, the viewer's own booking beats full.
func slotStatusFor(s *SlotRecord, mine map[uuid.UUID]uuid.UUID, now time.Time) SlotStatus {
	if !s.StartsAt.After(now) {
		return SlotPast
	}
	if _, ok := mine[s.ID]; ok {
		return SlotReserved
	}
	if s.Occupied >= s.Capacity {
		return SlotFull
	}
	return SlotAvailable
}

// StartOfWeek normalizes to the Monday 00:00 UTC of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	t = t.UTC()
	day := t.Truncate(24 * time.Hour)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}
