// Package lifecycle is the sole authority for loan state transitions. Role
// checks live here, once per transition, never in the calling layers.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"loanflow-backend/internal/domain/identity"
	"loanflow-backend/internal/domain/loan"
	"loanflow-backend/pkg/id"
)

// Notifier is told after every committed mutation so derived figures can be
// rebuilt before the caller observes the result.
type Notifier interface {
	Recompute(ctx context.Context) error
}

type Engine struct {
	store    loan.Store
	notifier Notifier
	now      func() time.Time
}

func NewEngine(store loan.Store, n Notifier) *Engine {
	return &Engine{store: store, notifier: n, now: func() time.Time { return time.Now().UTC() }}
}

type ApplyInput struct {
	Amount  float64 `json:"amount"`
	Purpose string  `json:"purpose"`
}

// Apply creates a new pending loan for the acting principal.
func (e *Engine) Apply(ctx context.Context, p identity.Principal, in ApplyInput) (*loan.Loan, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: missing principal", loan.ErrUnauthorized)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", loan.ErrValidation)
	}
	if strings.TrimSpace(in.Purpose) == "" {
		return nil, fmt.Errorf("%w: purpose must not be empty", loan.ErrValidation)
	}

	l := &loan.Loan{
		LoanID:        id.NewID32(),
		ApplicantID:   p.ID,
		ApplicantName: p.Name,
		Amount:        in.Amount,
		Purpose:       strings.TrimSpace(in.Purpose),
		Status:        loan.StatusPending,
		SubmittedAt:   e.now(),
	}
	if err := e.store.Insert(ctx, l); err != nil {
		return nil, err
	}
	e.notify(ctx)
	logrus.WithFields(logrus.Fields{
		"loan_id":   l.LoanID,
		"applicant": p.ID,
		"amount":    l.Amount,
	}).Info("loan application submitted")
	return l.Clone(), nil
}

// Verify moves a pending loan to verified (or rejected). Verifiers and
// admins only. A rejection at this stage is terminal and still records the
// deciding principal in VerifiedBy; there is no separate rejector field
// before verification.
func (e *Engine) Verify(ctx context.Context, p identity.Principal, loanID string, approve bool, notes string) (*loan.Loan, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: missing principal", loan.ErrUnauthorized)
	}
	if !p.CanVerify() {
		return nil, fmt.Errorf("%w: role %q may not verify loans", loan.ErrUnauthorized, p.Role)
	}

	updated, err := e.store.Replace(ctx, loanID, func(l *loan.Loan) error {
		if l.Status != loan.StatusPending {
			return fmt.Errorf("%w: verify requires pending, loan %s is %s", loan.ErrInvalidTransition, loanID, l.Status)
		}
		if approve {
			l.Status = loan.StatusVerified
		} else {
			l.Status = loan.StatusRejected
		}
		l.VerifiedBy = p.ID
		mergeNotes(l, notes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.notify(ctx)
	logrus.WithFields(logrus.Fields{
		"loan_id":  loanID,
		"verifier": p.ID,
		"status":   updated.Status,
	}).Info("loan verified")
	return updated, nil
}

// Approve decides a verified loan. Admins only.
func (e *Engine) Approve(ctx context.Context, p identity.Principal, loanID string, approve bool, notes string) (*loan.Loan, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: missing principal", loan.ErrUnauthorized)
	}
	if !p.CanApprove() {
		return nil, fmt.Errorf("%w: role %q may not approve loans", loan.ErrUnauthorized, p.Role)
	}

	updated, err := e.store.Replace(ctx, loanID, func(l *loan.Loan) error {
		if l.Status != loan.StatusVerified {
			return fmt.Errorf("%w: approve requires verified, loan %s is %s", loan.ErrInvalidTransition, loanID, l.Status)
		}
		if approve {
			l.Status = loan.StatusApproved
			l.ApprovedBy = p.ID
		} else {
			l.Status = loan.StatusRejected
			l.RejectedBy = p.ID
		}
		mergeNotes(l, notes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.notify(ctx)
	logrus.WithFields(logrus.Fields{
		"loan_id": loanID,
		"admin":   p.ID,
		"status":  updated.Status,
	}).Info("loan decided")
	return updated, nil
}

// Omitted notes keep the prior value; they are never cleared by a
// transition.
func mergeNotes(l *loan.Loan, notes string) {
	if notes != "" {
		l.Notes = notes
	}
}

func (e *Engine) notify(ctx context.Context) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Recompute(ctx); err != nil {
		logrus.WithError(err).Warn("metrics recompute failed")
	}
}
