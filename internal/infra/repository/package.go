package repository

import (
	"context"
	"errors"
	"time"

	"studio-booking/internal/domain/pack"
	"studio-booking/internal/infra"
	"studio-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PackageRepository struct {
	pool *pgxpool.Pool
}

func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{pool: pool}
}

func (r *PackageRepository) Grant(ctx context.Context, p *pack.Package) error {
	const q = `
		INSERT INTO packages (id, client_id, total_credits, remaining_credits, activated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, q,
		p.ID(), p.ClientID(), p.Total(), p.Remaining(), p.ActivatedAt(), p.ExpiresAt())
	if err != nil {
		return infra.WrapRepoErr("failed to grant package", err)
	}
	return nil
}

// ActivePackagesFor applies the earliest-expiry-first ordering in SQL.
func (r *PackageRepository) ActivePackagesFor(ctx context.Context, clientID uuid.UUID, now time.Time) ([]*commands.PackageSnapshot, error) {
	const q = `
		SELECT id, client_id, total_credits, remaining_credits, activated_at, expires_at
		FROM packages
		WHERE client_id = $1 AND expires_at > $2 AND remaining_credits > 0
		ORDER BY expires_at ASC`

	rows, err := r.pool.Query(ctx, q, clientID, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active packages", err)
	}
	defer rows.Close()

	var result []*commands.PackageSnapshot
	for rows.Next() {
		var s commands.PackageSnapshot
		if err := rows.Scan(&s.ID, &s.ClientID, &s.Total, &s.Remaining, &s.ActivatedAt, &s.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan package", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read packages", err)
	}
	return result, nil
}

func (r *PackageRepository) TryDebitCredit(ctx context.Context, packageID uuid.UUID, now time.Time) (int, error) {
	const q = `
		UPDATE packages
		SET remaining_credits = remaining_credits - 1
		WHERE id = $1 AND remaining_credits > 0 AND expires_at > $2
		RETURNING remaining_credits`

	var remaining int
	err := r.pool.QueryRow(ctx, q, packageID, now).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, infra.WrapRepoErr("failed to debit credit", err)
	}
	return 0, r.classifyDebitFailure(ctx, packageID, now)
}

func (r *PackageRepository) classifyDebitFailure(ctx context.Context, packageID uuid.UUID, now time.Time) error {
	var remaining int
	var expiresAt time.Time
	const q = `SELECT remaining_credits, expires_at FROM packages WHERE id = $1`
	err := r.pool.QueryRow(ctx, q, packageID).Scan(&remaining, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return infra.WrapRepoErr("package not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to find package", err)
	}
	if !expiresAt.After(now) {
		return pack.ErrExpired
	}
	return pack.ErrNoCredits
}

// RefundCredit rejects refunds onto an expired package; the forfeiture
// policy eats the credit instead.
func (r *PackageRepository) RefundCredit(ctx context.Context, packageID uuid.UUID, now time.Time) error {
	const q = `
		UPDATE packages
		SET remaining_credits = LEAST(remaining_credits + 1, total_credits)
		WHERE id = $1 AND expires_at > $2`

	tag, err := r.pool.Exec(ctx, q, packageID, now)
	if err != nil {
		return infra.WrapRepoErr("failed to refund credit", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var expiresAt time.Time
	err = r.pool.QueryRow(ctx, `SELECT expires_at FROM packages WHERE id = $1`, packageID).Scan(&expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return infra.WrapRepoErr("package not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to find package", err)
	}
	return pack.ErrExpired
}
