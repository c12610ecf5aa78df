package loan

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal statuses admit no further transition.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

type Loan struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID        string    `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	ApplicantID   string    `gorm:"size:32;index:idx_loans_applicant" json:"applicant_id"`
	ApplicantName string    `gorm:"size:128" json:"applicant_name"`
	Amount        float64   `gorm:"type:decimal(18,2)" json:"amount"`
	Purpose       string    `gorm:"type:text" json:"purpose"`
	Status        Status    `gorm:"type:enum('pending','verified','approved','rejected');default:'pending'" json:"status"`
	SubmittedAt   time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	// Exactly one of the three actor fields is set once the loan leaves
	// pending; a stage-one rejection is recorded in VerifiedBy.
	VerifiedBy string    `gorm:"size:32" json:"verified_by,omitempty"`
	ApprovedBy string    `gorm:"size:32" json:"approved_by,omitempty"`
	RejectedBy string    `gorm:"size:32" json:"rejected_by,omitempty"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Clone returns an independent copy. All fields are value types, so a
// shallow copy is a full copy.
func (l *Loan) Clone() *Loan {
	c := *l
	return &c
}
