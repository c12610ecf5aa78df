package loan

import "context"

// Updater mutates a loan in place. It runs under the store's per-loan lock,
// so the read-check-write of a transition is indivisible. Returning an error
// aborts the replace and leaves the stored record untouched.
type Updater func(l *Loan) error

// Store is the authoritative loan collection. Ordering is
// most-recent-first (by submission). No business rules live here.
type Store interface {
	// Insert adds a new record. Fails with ErrDuplicateID if the id exists.
	Insert(ctx context.Context, l *Loan) error
	// Get returns a copy of the record, or ErrNotFound.
	Get(ctx context.Context, loanID string) (*Loan, error)
	// Replace applies fn to the record identified by loanID atomically and
	// returns the updated copy. Fails with ErrNotFound if absent; any error
	// from fn is returned unchanged with the store unmodified.
	Replace(ctx context.Context, loanID string, fn Updater) (*Loan, error)
	// Snapshot returns an immutable, most-recent-first view of the
	// collection for aggregation and queries.
	Snapshot(ctx context.Context) ([]Loan, error)
}
