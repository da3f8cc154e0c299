package readstore

import (
	"context"

	"studio-booking/internal/infra"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PackageReadStore struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func NewPackageReadStore(pool *pgxpool.Pool, clk clock.Clock) *PackageReadStore {
	return &PackageReadStore{pool: pool, clock: clk}
}

func (r *PackageReadStore) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*queries.PackageView, error) {
	const q = `
		SELECT id, total_credits, remaining_credits, activated_at, expires_at
		FROM packages
		WHERE client_id = $1
		ORDER BY expires_at ASC`

	rows, err := r.pool.Query(ctx, q, clientID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list packages", err)
	}
	defer rows.Close()

	now := r.clock.Now()
	var result []*queries.PackageView
	for rows.Next() {
		var v queries.PackageView
		if err := rows.Scan(&v.ID, &v.Total, &v.Remaining, &v.ActivatedAt, &v.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan package view", err)
		}
		v.Status = queries.PackageStatusAt(v.Remaining, v.ExpiresAt, now)
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read package views", err)
	}
	return result, nil
}
