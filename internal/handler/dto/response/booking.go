package response

import (
	"time"

	"studio-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID               uuid.UUID `json:"id"`
	ClientID         uuid.UUID `json:"client_id"`
	SlotID           uuid.UUID `json:"slot_id"`
	PackageID        uuid.UUID `json:"package_id"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	CreditsRemaining int       `json:"credits_remaining"`
}

func FromBookingResult(r *commands.BookingResult) *BookingResponse {
	res := r.Reservation
	return &BookingResponse{
		ID:               res.ID(),
		ClientID:         res.ClientID(),
		SlotID:           res.SlotID(),
		PackageID:        res.PackageID(),
		Status:           res.Status().String(),
		CreatedAt:        res.CreatedAt(),
		CreditsRemaining: r.CreditsRemaining,
	}
}

type CancelResponse struct {
	ID             uuid.UUID  `json:"id"`
	Status         string     `json:"status"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   *string    `json:"cancel_reason,omitempty"`
	CreditRefunded bool       `json:"credit_refunded"`
	RefundDenied   *string    `json:"refund_denied,omitempty"`
	Replayed       bool       `json:"replayed"`
}

func FromCancelResult(r *commands.CancelResult) *CancelResponse {
	res := r.Reservation
	return &CancelResponse{
		ID:             res.ID(),
		Status:         res.Status().String(),
		CancelledAt:    res.CancelledAt(),
		CancelReason:   res.CancelReason(),
		CreditRefunded: res.CreditRefunded(),
		RefundDenied:   res.RefundDenied(),
		Replayed:       r.Replayed,
	}
}
