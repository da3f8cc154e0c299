//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/infra/memory"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantPackage(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	newFixture := func() (commands.LedgerCommands, *memory.PackageLedger) {
		ledger := memory.NewPackageLedger()
		return commands.NewLedgerCommands(ledger, clock.NewMockClock(now)), ledger
	}

	t.Run("activates a bundle", func(t *testing.T) {
		uc, ledger := newFixture()
		clientID := uuid.New()

		result, err := uc.GrantPackage(ctx, clientID, 10, 30)
		require.NoError(t, err)

		p := result.Package
		assert.Equal(t, clientID, p.ClientID())
		assert.Equal(t, 10, p.Remaining())
		assert.Equal(t, now.AddDate(0, 0, 30), p.ExpiresAt())

		active, err := ledger.ActivePackagesFor(ctx, clientID, now)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, p.ID(), active[0].ID)
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		uc, _ := newFixture()

		cases := []struct {
			name     string
			credits  int
			validity int
		}{
			{name: "zero credits", credits: 0, validity: 30},
			{name: "validity too long", credits: 10, validity: 400},
			{name: "validity too short", credits: 10, validity: 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := uc.GrantPackage(ctx, uuid.New(), tc.credits, tc.validity)
				assert.ErrorIs(t, err, commands.ErrInvalidPackage)
			})
		}
	})
}
