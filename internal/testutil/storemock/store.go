package storemock

import (
	"context"

	domain "loanflow-backend/internal/domain/loan"
)

// Store is a function-backed mock that satisfies domain.Store. Only wire the
// methods a test needs; the rest fall back to benign defaults.
type Store struct {
	InsertFn   func(ctx context.Context, l *domain.Loan) error
	GetFn      func(ctx context.Context, loanID string) (*domain.Loan, error)
	ReplaceFn  func(ctx context.Context, loanID string, fn domain.Updater) (*domain.Loan, error)
	SnapshotFn func(ctx context.Context) ([]domain.Loan, error)
}

var _ domain.Store = (*Store)(nil)

func (m *Store) Insert(ctx context.Context, l *domain.Loan) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, l)
	}
	return nil
}

func (m *Store) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Store) Replace(ctx context.Context, loanID string, fn domain.Updater) (*domain.Loan, error) {
	if m.ReplaceFn != nil {
		return m.ReplaceFn(ctx, loanID, fn)
	}
	return nil, domain.ErrNotFound
}

func (m *Store) Snapshot(ctx context.Context) ([]domain.Loan, error) {
	if m.SnapshotFn != nil {
		return m.SnapshotFn(ctx)
	}
	return nil, nil
}
