package request

import (
	"github.com/google/uuid"
)

const defaultValidityDays = 30

type GrantPackageRequest struct {
	ClientID     uuid.UUID `json:"client_id" binding:"required"`
	Credits      int       `json:"credits" binding:"required,min=1"`
	ValidityDays int       `json:"validity_days" binding:"omitempty,min=1,max=365"`
}

func (r *GrantPackageRequest) GetValidityDays() int {
	if r.ValidityDays == 0 {
		return defaultValidityDays
	}
	return r.ValidityDays
}
