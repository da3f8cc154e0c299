package response

import (
	"time"

	"studio-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type GrantPackageResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	Total       int       `json:"total_credits"`
	Remaining   int       `json:"remaining_credits"`
	ActivatedAt time.Time `json:"activated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func FromGrantPackageResult(r *commands.GrantPackageResult) *GrantPackageResponse {
	p := r.Package
	return &GrantPackageResponse{
		ID:          p.ID(),
		ClientID:    p.ClientID(),
		Total:       p.Total(),
		Remaining:   p.Remaining(),
		ActivatedAt: p.ActivatedAt(),
		ExpiresAt:   p.ExpiresAt(),
	}
}
