package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"studio-booking/internal/domain/pack"
	"studio-booking/internal/infra"
	"studio-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type packageEntry struct {
	mu  sync.Mutex
	pkg *pack.Package
}

type PackageLedger struct {
	mu       sync.RWMutex
	packages map[uuid.UUID]*packageEntry
	byClient map[uuid.UUID][]uuid.UUID
}

func NewPackageLedger() *PackageLedger {
	return &PackageLedger{
		packages: make(map[uuid.UUID]*packageEntry),
		byClient: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (l *PackageLedger) Grant(ctx context.Context, p *pack.Package) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.packages[p.ID()] = &packageEntry{pkg: p}
	l.byClient[p.ClientID()] = append(l.byClient[p.ClientID()], p.ID())
	return nil
}

// ActivePackagesFor orders by soonest expiry first so the credit closest
// to being forfeited is consumed first.
func (l *PackageLedger) ActivePackagesFor(ctx context.Context, clientID uuid.UUID, now time.Time) ([]*commands.PackageSnapshot, error) {
	l.mu.RLock()
	ids := append([]uuid.UUID(nil), l.byClient[clientID]...)
	l.mu.RUnlock()

	var result []*commands.PackageSnapshot
	for _, id := range ids {
		e, err := l.entry(id)
		if err != nil {
			continue
		}
		e.mu.Lock()
		if e.pkg.Status(now) == pack.StatusActive {
			result = append(result, snapshotPackage(e.pkg))
		}
		e.mu.Unlock()
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ExpiresAt.Before(result[j].ExpiresAt)
	})
	return result, nil
}

// TryDebitCredit is linearizable per package.
func (l *PackageLedger) TryDebitCredit(ctx context.Context, packageID uuid.UUID, now time.Time) (int, error) {
	e, err := l.entry(packageID)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.pkg.Debit(now); err != nil {
		return 0, err
	}
	return e.pkg.Remaining(), nil
}

func (l *PackageLedger) RefundCredit(ctx context.Context, packageID uuid.UUID, now time.Time) error {
	e, err := l.entry(packageID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pkg.Refund(now)
}

// Snapshot returns the current state of a package, for tests and tooling.
func (l *PackageLedger) Snapshot(packageID uuid.UUID) (*commands.PackageSnapshot, bool) {
	e, err := l.entry(packageID)
	if err != nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotPackage(e.pkg), true
}

func (l *PackageLedger) entry(id uuid.UUID) (*packageEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.packages[id]
	if !ok {
		return nil, infra.WrapRepoErr("package not found", nil, infra.KindNotFound)
	}
	return e, nil
}

func snapshotPackage(p *pack.Package) *commands.PackageSnapshot {
	return &commands.PackageSnapshot{
		ID:          p.ID(),
		ClientID:    p.ClientID(),
		Total:       p.Total(),
		Remaining:   p.Remaining(),
		ActivatedAt: p.ActivatedAt(),
		ExpiresAt:   p.ExpiresAt(),
	}
}
