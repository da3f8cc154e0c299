package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ReservationReadStore interface {
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*ReservationView, error)
}

type PackageReadStore interface {
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*PackageView, error)
}

type ReservationQueries interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*ReservationView, error)
}

type PackageQueries interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*PackageView, error)
}

type reservationQueriesImpl struct {
	repo ReservationReadStore
}

func NewReservationQueries(repo ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

func (q *reservationQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*ReservationView, error) {
	return q.repo.FindByClientID(ctx, clientID)
}

type packageQueriesImpl struct {
	repo PackageReadStore
}

func NewPackageQueries(repo PackageReadStore) PackageQueries {
	return &packageQueriesImpl{repo: repo}
}

func (q *packageQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*PackageView, error) {
	return q.repo.FindByClientID(ctx, clientID)
}

// PackageStatusAt mirrors the ledger's derived status for read models.
func PackageStatusAt(remaining int, expiresAt, now time.Time) string {
	if !now.Before(expiresAt) {
		return "expired"
	}
	if remaining == 0 {
		return "exhausted"
	}
	return "active"
}
