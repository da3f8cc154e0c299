package request

import (
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SlotID uuid.UUID `json:"slot_id" binding:"required"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}
