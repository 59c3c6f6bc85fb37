package domain

import "time"

type FineStatus string

const (
	FineStatusPending FineStatus = "PENDING"
	FineStatusPaid    FineStatus = "PAID"
	FineStatusWaived  FineStatus = "WAIVED"
)

// Fine is owed for a loan returned past its due date. At most one fine exists
// per loan. Amounts are integer cents. A PAID fine is immutable.
type Fine struct {
	ID          int32      `json:"id"`
	LoanID      int32      `json:"loan_id"`
	UserID      int32      `json:"user_id"`
	AmountCents int64      `json:"amount_cents"`
	IssueDate   time.Time  `json:"issue_date"`
	PaidDate    *time.Time `json:"paid_date,omitempty"`
	Status      FineStatus `json:"status"`
}

func (f *Fine) Settled() bool {
	return f.Status == FineStatusPaid || f.Status == FineStatusWaived
}
