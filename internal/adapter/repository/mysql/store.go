// Package mysql is the gorm-backed loan.Store, selected with
// STORE_DRIVER=mysql. It keeps the same atomic Replace contract as the
// in-memory store by running the updater inside a transaction that holds a
// row lock on the loan.
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "loanflow-backend/internal/domain/loan"
)

type Store struct{ db *gorm.DB }

var _ loanDomain.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, l *loanDomain.Loan) error {
	err := s.db.WithContext(ctx).Create(l).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", loanDomain.ErrDuplicateID, l.LoanID)
	}
	return err
}

func (s *Store) Get(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := s.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", loanDomain.ErrNotFound, loanID)
	}
	return &out, res.Error
}

// Replace locks the loan row up-front so the read-check-write sequence of a
// transition cannot interleave with a concurrent one. An updater error rolls
// the transaction back.
func (s *Store) Replace(ctx context.Context, loanID string, fn loanDomain.Updater) (*loanDomain.Loan, error) {
	var out *loanDomain.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite (used by the tests) has no FOR UPDATE; its database-level
		// write lock already serializes the transaction.
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var l loanDomain.Loan
		res := q.Where("loan_id = ?", loanID).First(&l)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", loanDomain.ErrNotFound, loanID)
		}
		if res.Error != nil {
			return res.Error
		}
		if err := fn(&l); err != nil {
			return err
		}
		if err := tx.Save(&l).Error; err != nil {
			return err
		}
		out = &l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Snapshot(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := s.db.WithContext(ctx).
		Order("submitted_at DESC, id DESC").
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return out, nil
}
