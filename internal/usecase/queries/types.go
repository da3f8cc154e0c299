package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotFull      SlotStatus = "full"
	SlotPast      SlotStatus = "past"
	SlotReserved  SlotStatus = "reserved"
)

// WeekSlotView is one calendar cell from a given viewer's perspective.
type WeekSlotView struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	InstructorID  uuid.UUID  `json:"instructor_id"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	Capacity      int        `json:"capacity"`
	Occupied      int        `json:"occupied"`
	Status        SlotStatus `json:"status"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
}

type WeekView struct {
	WeekStart time.Time       `json:"week_start"`
	Slots     []*WeekSlotView `json:"slots"`
}

type ReservationView struct {
	ID             uuid.UUID  `json:"id"`
	SlotID         uuid.UUID  `json:"slot_id"`
	SlotTitle      string     `json:"slot_title"`
	SlotStartsAt   time.Time  `json:"slot_starts_at"`
	PackageID      uuid.UUID  `json:"package_id"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   *string    `json:"cancel_reason,omitempty"`
	CreditRefunded bool       `json:"credit_refunded"`
}

type PackageView struct {
	ID          uuid.UUID `json:"id"`
	Total       int       `json:"total_credits"`
	Remaining   int       `json:"remaining_credits"`
	ActivatedAt time.Time `json:"activated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Status      string    `json:"status"`
}
