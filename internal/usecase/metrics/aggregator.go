// Package metrics derives the dashboard figures from a loan store snapshot
// plus the seeded baseline. Derivation is a pure function; the aggregator
// only caches its latest result.
package metrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"loanflow-backend/internal/domain/loan"
	"loanflow-backend/internal/domain/stats"
)

type Aggregator struct {
	store    loan.Store
	baseline stats.Baseline

	// recomputeMu orders whole recomputes: without it, a recompute holding
	// an older snapshot could commit after one holding a fresher snapshot
	// and roll the published figures backwards.
	recomputeMu sync.Mutex

	mu    sync.RWMutex
	stats stats.DashboardStats
	chart stats.ChartSeries
}

// NewAggregator validates the seeded baseline and primes the cached figures
// from it. Seed values outside their legal range are a startup error, not
// something to clamp silently.
func NewAggregator(store loan.Store, baseline stats.Baseline) (*Aggregator, error) {
	if err := baseline.Validate(); err != nil {
		return nil, fmt.Errorf("%w: baseline seed: %v", loan.ErrValidation, err)
	}
	a := &Aggregator{store: store, baseline: baseline}
	a.stats, a.chart = Compute(nil, baseline)
	return a, nil
}

// Recompute rebuilds the cached figures from the current snapshot. The
// lifecycle engine calls it after every committed mutation.
func (a *Aggregator) Recompute(ctx context.Context) error {
	a.recomputeMu.Lock()
	defer a.recomputeMu.Unlock()

	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	st, ch := Compute(snap, a.baseline)
	a.mu.Lock()
	a.stats, a.chart = st, ch
	a.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"total_loans":    st.TotalLoans,
		"cash_disbursed": st.CashDisbursed,
	}).Debug("dashboard stats recomputed")
	return nil
}

func (a *Aggregator) Stats() stats.DashboardStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

func (a *Aggregator) Chart() stats.ChartSeries {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.chart
}

// Compute derives the dashboard figures from a snapshot and a baseline.
//
// Derived: total loan count, cash disbursed (sum of approved amounts),
// borrowers (baseline plus approved count), and the released/outstanding
// monthly buckets keyed by submission month. Everything else, including the
// repayment buckets and the recovery rates, passes through from the
// baseline; no repayment ledger exists to derive them from.
func Compute(snap []loan.Loan, b stats.Baseline) (stats.DashboardStats, stats.ChartSeries) {
	st := stats.DashboardStats{
		ActiveUsers:   b.ActiveUsers,
		Borrowers:     b.Borrowers,
		CashReceived:  b.CashReceived,
		Savings:       b.Savings,
		RepaidLoans:   b.RepaidLoans,
		OtherAccounts: b.OtherAccounts,
		TotalLoans:    len(snap),
	}
	var ch stats.ChartSeries
	for i, v := range b.RepaymentsCollectedMonthly {
		if i >= stats.MonthsPerYear {
			break
		}
		ch.RepaymentsCollectedMonthly[i] = v
	}
	ch.RecoveryRateOpen = b.RecoveryRateOpen
	ch.RecoveryRateClosed = b.RecoveryRateClosed

	for i := range snap {
		l := &snap[i]
		month := int(l.SubmittedAt.Month()) - 1
		switch l.Status {
		case loan.StatusApproved:
			st.CashDisbursed += l.Amount
			st.Borrowers++
			ch.LoansReleasedMonthly[month] += l.Amount
		case loan.StatusPending, loan.StatusVerified:
			ch.OutstandingLoansMonthly[month] += l.Amount
		}
	}
	return st, ch
}
