// Package fixture builds deterministic loan data for tests and demo
// seeding. Nothing here is random; the same n always yields the same loans.
package fixture

import (
	"context"
	"fmt"
	"time"

	"loanflow-backend/internal/domain/loan"
)

var statuses = []loan.Status{
	loan.StatusPending,
	loan.StatusVerified,
	loan.StatusApproved,
	loan.StatusRejected,
}

var purposes = []string{"Business", "Education", "Home Improvement", "Working Capital"}

// Loans returns n deterministic records. Ids are sequential hex, statuses
// cycle through the full set, and submission dates spread across the months
// of a fixed year so chart buckets get populated.
func Loans(n int) []loan.Loan {
	out := make([]loan.Loan, 0, n)
	for i := 0; i < n; i++ {
		st := statuses[i%len(statuses)]
		l := loan.Loan{
			LoanID:        fmt.Sprintf("%032x", i+1),
			ApplicantID:   fmt.Sprintf("%032x", 1000+i%3),
			ApplicantName: fmt.Sprintf("Applicant %d", i%3+1),
			Amount:        float64(500 * (i + 1)),
			Purpose:       purposes[i%len(purposes)],
			Status:        st,
			SubmittedAt:   time.Date(2026, time.Month(i%12+1), 10, 9, 0, 0, 0, time.UTC),
		}
		switch st {
		case loan.StatusVerified:
			l.VerifiedBy = verifierID
		case loan.StatusApproved:
			l.VerifiedBy = verifierID
			l.ApprovedBy = adminID
		case loan.StatusRejected:
			l.VerifiedBy = verifierID
		}
		out = append(out, l)
	}
	return out
}

const (
	verifierID = "feedfeedfeedfeedfeedfeedfeedfeed"
	adminID    = "adadadadadadadadadadadadadadadad"
)

// SeedStore inserts n fixture loans into a store.
func SeedStore(ctx context.Context, s loan.Store, n int) error {
	for _, l := range Loans(n) {
		l := l
		if err := s.Insert(ctx, &l); err != nil {
			return err
		}
	}
	return nil
}
