//go:build unit

package pack_test

import (
	"testing"
	"time"

	"studio-booking/internal/domain/pack"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPackage(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("basic success case", func(t *testing.T) {
		p, err := pack.NewPackage(uuid.New(), 10, 30, now)
		require.NoError(t, err)

		assert.Equal(t, 10, p.Total())
		assert.Equal(t, 10, p.Remaining())
		assert.Equal(t, now.AddDate(0, 0, 30), p.ExpiresAt())
		assert.Equal(t, pack.StatusActive, p.Status(now))
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name     string
			credits  int
			validity int
			errIs    error
		}{
			{name: "zero credits", credits: 0, validity: 30, errIs: pack.ErrInvalidCredits},
			{name: "negative credits", credits: -5, validity: 30, errIs: pack.ErrInvalidCredits},
			{name: "validity below minimum", credits: 10, validity: 0, errIs: pack.ErrInvalidValidity},
			{name: "validity above maximum", credits: 10, validity: 366, errIs: pack.ErrInvalidValidity},
			{name: "minimum validity", credits: 10, validity: 1},
			{name: "maximum validity", credits: 10, validity: 365},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := pack.NewPackage(uuid.New(), tc.credits, tc.validity, now)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestPackageStatus(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clientID := uuid.New()

	t.Run("expired wins over exhausted", func(t *testing.T) {
		p := pack.ReconstructPackage(uuid.New(), clientID, 10, 0, now.AddDate(0, 0, -40), now.AddDate(0, 0, -10))
		assert.Equal(t, pack.StatusExpired, p.Status(now))
	})

	t.Run("exhausted when credits run out", func(t *testing.T) {
		p := pack.ReconstructPackage(uuid.New(), clientID, 10, 0, now, now.AddDate(0, 0, 30))
		assert.Equal(t, pack.StatusExhausted, p.Status(now))
	})

	t.Run("expired at the exact expiry instant", func(t *testing.T) {
		p := pack.ReconstructPackage(uuid.New(), clientID, 10, 5, now.AddDate(0, 0, -30), now)
		assert.Equal(t, pack.StatusExpired, p.Status(now))
	})
}

func TestPackageDebit(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("consumes one credit", func(t *testing.T) {
		p, err := pack.NewPackage(uuid.New(), 2, 30, now)
		require.NoError(t, err)

		require.NoError(t, p.Debit(now))
		assert.Equal(t, 1, p.Remaining())

		require.NoError(t, p.Debit(now))
		assert.ErrorIs(t, p.Debit(now), pack.ErrNoCredits)
		assert.Equal(t, 0, p.Remaining())
	})

	t.Run("rejects expired package", func(t *testing.T) {
		p := pack.ReconstructPackage(uuid.New(), uuid.New(), 10, 5, now.AddDate(0, 0, -40), now.AddDate(0, 0, -10))
		assert.ErrorIs(t, p.Debit(now), pack.ErrExpired)
		assert.Equal(t, 5, p.Remaining())
	})
}

func TestPackageRefund(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("returns a debited credit", func(t *testing.T) {
		p, err := pack.NewPackage(uuid.New(), 5, 30, now)
		require.NoError(t, err)
		require.NoError(t, p.Debit(now))

		require.NoError(t, p.Refund(now))
		assert.Equal(t, 5, p.Remaining())
	})

	t.Run("capped at total credits", func(t *testing.T) {
		p, err := pack.NewPackage(uuid.New(), 5, 30, now)
		require.NoError(t, err)

		require.NoError(t, p.Refund(now))
		assert.Equal(t, 5, p.Remaining())
	})

	t.Run("rejected after expiry, credit forfeited", func(t *testing.T) {
		p := pack.ReconstructPackage(uuid.New(), uuid.New(), 5, 3, now.AddDate(0, 0, -40), now.AddDate(0, 0, -1))
		assert.ErrorIs(t, p.Refund(now), pack.ErrExpired)
		assert.Equal(t, 3, p.Remaining())
	})
}
