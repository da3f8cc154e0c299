package commands

import (
	"context"
	"errors"

	"studio-booking/internal/domain/pack"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidPackage = errs.New("invalid package parameters")

type GrantPackageResult struct {
	Package *pack.Package
}

// LedgerCommands activates credit bundles for clients. Catalog concerns
// (pricing, marketing) stay outside this core.
type LedgerCommands interface {
	GrantPackage(ctx context.Context, clientID uuid.UUID, credits, validityDays int) (*GrantPackageResult, error)
}

type ledgerUseCaseImpl struct {
	ledger PackageLedger
	clock  clock.Clock
}

func NewLedgerCommands(ledger PackageLedger, clk clock.Clock) LedgerCommands {
	return &ledgerUseCaseImpl{ledger: ledger, clock: clk}
}

func (uc *ledgerUseCaseImpl) GrantPackage(ctx context.Context, clientID uuid.UUID, credits, validityDays int) (*GrantPackageResult, error) {
	now := uc.clock.Now()

	p, err := pack.NewPackage(clientID, credits, validityDays, now)
	if err != nil {
		if errors.Is(err, pack.ErrInvalidCredits) || errors.Is(err, pack.ErrInvalidValidity) {
			return nil, errs.Mark(err, ErrInvalidPackage)
		}
		return nil, err
	}

	if err := uc.ledger.Grant(ctx, p); err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	return &GrantPackageResult{Package: p}, nil
}
