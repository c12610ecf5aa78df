package stats

import (
	"fmt"
)

const MonthsPerYear = 12

// DashboardStats is a derived aggregate over the loan collection plus the
// seeded baseline. It has no identity of its own; it is recomputed from a
// snapshot and never mutated directly.
type DashboardStats struct {
	ActiveUsers   int     `json:"active_users"`
	Borrowers     int     `json:"borrowers"`
	CashDisbursed float64 `json:"cash_disbursed"`
	CashReceived  float64 `json:"cash_received"`
	Savings       float64 `json:"savings"`
	RepaidLoans   int     `json:"repaid_loans"`
	OtherAccounts int     `json:"other_accounts"`
	TotalLoans    int     `json:"total_loans"`
}

// ChartSeries holds one bucket per calendar month for each series, plus the
// two recovery-rate percentages.
type ChartSeries struct {
	LoansReleasedMonthly       [MonthsPerYear]float64 `json:"loans_released_monthly"`
	OutstandingLoansMonthly    [MonthsPerYear]float64 `json:"outstanding_loans_monthly"`
	RepaymentsCollectedMonthly [MonthsPerYear]float64 `json:"repayments_collected_monthly"`
	RecoveryRateOpen           float64                `json:"recovery_rate_open"`
	RecoveryRateClosed         float64                `json:"recovery_rate_closed"`
}

// Baseline carries the figures that cannot be derived from the loan
// collection. They are seeded once at startup by an external collaborator
// (config file) and validated here; the recovery rates and repayment buckets
// are pass-through values, not computed from cash flow.
type Baseline struct {
	ActiveUsers                int       `json:"active_users"`
	Borrowers                  int       `json:"borrowers"`
	CashReceived               float64   `json:"cash_received"`
	Savings                    float64   `json:"savings"`
	RepaidLoans                int       `json:"repaid_loans"`
	OtherAccounts              int       `json:"other_accounts"`
	RepaymentsCollectedMonthly []float64 `json:"repayments_collected_monthly"`
	RecoveryRateOpen           float64   `json:"recovery_rate_open"`
	RecoveryRateClosed         float64   `json:"recovery_rate_closed"`
}

// Validate checks the seeded figures at ingestion. Recovery rates must be
// percentages; the repayment series, if present, must cover all months.
func (b Baseline) Validate() error {
	if b.RecoveryRateOpen < 0 || b.RecoveryRateOpen > 100 {
		return fmt.Errorf("recovery_rate_open %.2f out of [0,100]", b.RecoveryRateOpen)
	}
	if b.RecoveryRateClosed < 0 || b.RecoveryRateClosed > 100 {
		return fmt.Errorf("recovery_rate_closed %.2f out of [0,100]", b.RecoveryRateClosed)
	}
	if n := len(b.RepaymentsCollectedMonthly); n != 0 && n != MonthsPerYear {
		return fmt.Errorf("repayments_collected_monthly has %d buckets, want %d", n, MonthsPerYear)
	}
	for i, v := range b.RepaymentsCollectedMonthly {
		if v < 0 {
			return fmt.Errorf("repayments_collected_monthly[%d] is negative", i)
		}
	}
	if b.ActiveUsers < 0 || b.Borrowers < 0 || b.RepaidLoans < 0 || b.OtherAccounts < 0 {
		return fmt.Errorf("baseline counts must be non-negative")
	}
	return nil
}

// DefaultBaseline is the compiled-in seed used when no seed file is
// configured.
func DefaultBaseline() Baseline {
	return Baseline{
		ActiveUsers:                200,
		Borrowers:                  100,
		CashReceived:               1_000_000,
		Savings:                    450_000,
		RepaidLoans:                30,
		OtherAccounts:              10,
		RepaymentsCollectedMonthly: []float64{0.5, 5, 6, 9, 1, 4.5, 2, 9, 5.5, 1, 4, 3},
		RecoveryRateOpen:           35,
		RecoveryRateClosed:         45,
	}
}
