package pack

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredits  = errors.New("credits must be positive")
	ErrInvalidValidity = errors.New("validity must be between 1 and 365 days")
	ErrNoCredits       = errors.New("no credits remaining")
	ErrExpired         = errors.New("package has expired")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusExhausted Status = "exhausted"
)

const (
	MinValidityDays = 1
	MaxValidityDays = 365
)

// Package is a client's purchased bundle of class credits with a validity
// window. Remaining credits move only through Debit and Refund, one credit
// at a time; expired and exhausted packages are kept as historical record.
type Package struct {
	id        uuid.UUID
	clientID  uuid.UUID
	total     int
	remaining int
	activated time.Time
	expires   time.Time
}

func NewPackage(clientID uuid.UUID, credits, validityDays int, now time.Time) (*Package, error) {
	if credits <= 0 {
		return nil, ErrInvalidCredits
	}
	if validityDays < MinValidityDays || validityDays > MaxValidityDays {
		return nil, ErrInvalidValidity
	}

	return &Package{
		id:        uuid.New(),
		clientID:  clientID,
		total:     credits,
		remaining: credits,
		activated: now,
		expires:   now.AddDate(0, 0, validityDays),
	}, nil
}

func ReconstructPackage(
	id, clientID uuid.UUID,
	total, remaining int,
	activated, expires time.Time,
) *Package {
	return &Package{
		id:        id,
		clientID:  clientID,
		total:     total,
		remaining: remaining,
		activated: activated,
		expires:   expires,
	}
}

// Status is derived, never stored: time validity wins over exhaustion.
func (p *Package) Status(now time.Time) Status {
	if !now.Before(p.expires) {
		return StatusExpired
	}
	if p.remaining == 0 {
		return StatusExhausted
	}
	return StatusActive
}

// Debit consumes one credit. Only an active package can be debited.
func (p *Package) Debit(now time.Time) error {
	switch p.Status(now) {
	case StatusExpired:
		return ErrExpired
	case StatusExhausted:
		return ErrNoCredits
	}
	p.remaining--
	return nil
}

// Refund returns one credit unless the package has meanwhile expired; a
// refund onto an expired package is rejected and the credit is forfeited.
func (p *Package) Refund(now time.Time) error {
	if !now.Before(p.expires) {
		return ErrExpired
	}
	if p.remaining < p.total {
		p.remaining++
	}
	return nil
}

func (p *Package) ID() uuid.UUID          { return p.id }
func (p *Package) ClientID() uuid.UUID    { return p.clientID }
func (p *Package) Total() int             { return p.total }
func (p *Package) Remaining() int         { return p.remaining }
func (p *Package) ActivatedAt() time.Time { return p.activated }
func (p *Package) ExpiresAt() time.Time   { return p.expires }
