// Package query serves read-only projections over the loan store. Nothing
// here mutates state or triggers recomputation.
package query

import (
	"context"
	"fmt"

	"loanflow-backend/internal/domain/loan"
)

type Queries struct{ store loan.Store }

func NewQueries(store loan.Store) *Queries { return &Queries{store: store} }

func (q *Queries) List(ctx context.Context) ([]loan.Loan, error) {
	return q.store.Snapshot(ctx)
}

func (q *Queries) Get(ctx context.Context, loanID string) (*loan.Loan, error) {
	return q.store.Get(ctx, loanID)
}

func (q *Queries) ByApplicant(ctx context.Context, applicantID string) ([]loan.Loan, error) {
	snap, err := q.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]loan.Loan, 0)
	for _, l := range snap {
		if l.ApplicantID == applicantID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (q *Queries) ByStatus(ctx context.Context, st loan.Status) ([]loan.Loan, error) {
	if !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", loan.ErrValidation, st)
	}
	snap, err := q.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]loan.Loan, 0)
	for _, l := range snap {
		if l.Status == st {
			out = append(out, l)
		}
	}
	return out, nil
}
