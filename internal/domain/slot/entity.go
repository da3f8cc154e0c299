package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrSlotFull        = errors.New("slot is full")
	ErrSlotInPast      = errors.New("slot has already started")
	ErrSlotRetired     = errors.New("slot is retired")
)

// ClassSlot is one scheduled class instance on the weekly grid.
// Occupancy is mutated only through Reserve/Release; "past" is derived
// from the start time, never stored.
type ClassSlot struct {
	id           uuid.UUID
	title        string
	instructorID uuid.UUID
	startsAt     time.Time
	duration     time.Duration
	capacity     int
	occupied     int
	retired      bool
	createdAt    time.Time
}

func NewClassSlot(
	title string,
	instructorID uuid.UUID,
	startsAt time.Time,
	duration time.Duration,
	capacity int,
	now time.Time,
) (*ClassSlot, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	return &ClassSlot{
		id:           uuid.New(),
		title:        title,
		instructorID: instructorID,
		startsAt:     startsAt.UTC(),
		duration:     duration,
		capacity:     capacity,
		occupied:     0,
		createdAt:    now,
	}, nil
}

func ReconstructClassSlot(
	id, instructorID uuid.UUID,
	title string,
	startsAt time.Time,
	duration time.Duration,
	capacity, occupied int,
	retired bool,
	createdAt time.Time,
) *ClassSlot {
	return &ClassSlot{
		id:           id,
		title:        title,
		instructorID: instructorID,
		startsAt:     startsAt,
		duration:     duration,
		capacity:     capacity,
		occupied:     occupied,
		retired:      retired,
		createdAt:    createdAt,
	}
}

// Reserve increments occupancy after checking the booking preconditions.
// It fails closed: on any error occupancy is unchanged.
func (s *ClassSlot) Reserve(now time.Time) error {
	if s.retired {
		return ErrSlotRetired
	}
	if s.HasStarted(now) {
		return ErrSlotInPast
	}
	if s.occupied >= s.capacity {
		return ErrSlotFull
	}
	s.occupied++
	return nil
}

// Release decrements occupancy, floored at zero. A release below zero
// indicates a bug in the caller, not a user-facing condition.
func (s *ClassSlot) Release() {
	if s.occupied > 0 {
		s.occupied--
	}
}

func (s *ClassSlot) HasStarted(now time.Time) bool {
	return !s.startsAt.After(now)
}

func (s *ClassSlot) IsFull() bool {
	return s.occupied >= s.capacity
}

func (s *ClassSlot) EndsAt() time.Time {
	return s.startsAt.Add(s.duration)
}

func (s *ClassSlot) Retire() {
	s.retired = true
}

func (s *ClassSlot) ID() uuid.UUID           { return s.id }
func (s *ClassSlot) Title() string           { return s.title }
func (s *ClassSlot) InstructorID() uuid.UUID { return s.instructorID }
func (s *ClassSlot) StartsAt() time.Time     { return s.startsAt }
func (s *ClassSlot) Duration() time.Duration { return s.duration }
func (s *ClassSlot) Capacity() int           { return s.capacity }
func (s *ClassSlot) Occupied() int           { return s.occupied }
func (s *ClassSlot) Retired() bool           { return s.retired }
func (s *ClassSlot) CreatedAt() time.Time    { return s.createdAt }
