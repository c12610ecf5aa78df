// Package memory holds the in-process authoritative loan store: a single
// mutex-guarded collection with atomic read-check-write via Replace.
package memory

import (
	"context"
	"fmt"
	"sync"

	"loanflow-backend/internal/domain/loan"
)

type Store struct {
	mu    sync.Mutex
	byID  map[string]*loan.Loan
	order []string // loan ids, most recent first
}

var _ loan.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{byID: make(map[string]*loan.Loan)}
}

func (s *Store) Insert(ctx context.Context, l *loan.Loan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[l.LoanID]; ok {
		return fmt.Errorf("%w: %s", loan.ErrDuplicateID, l.LoanID)
	}
	s.byID[l.LoanID] = l.Clone()
	s.order = append([]string{l.LoanID}, s.order...)
	return nil
}

func (s *Store) Get(ctx context.Context, loanID string) (*loan.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[loanID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, loanID)
	}
	return l.Clone(), nil
}

// Replace runs fn on a copy of the record while holding the store lock, so
// two racing transitions on the same loan serialize and the loser sees the
// winner's state. The stored record is swapped only when fn succeeds.
func (s *Store) Replace(ctx context.Context, loanID string, fn loan.Updater) (*loan.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[loanID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, loanID)
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.byID[loanID] = next
	return next.Clone(), nil
}

// Snapshot returns value copies in most-recent-first order; callers can
// never reach the stored records through it.
func (s *Store) Snapshot(ctx context.Context) ([]loan.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]loan.Loan, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out, nil
}
