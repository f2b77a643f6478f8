package payouts

import "time"

// Journal statuses for App-to-User payouts. A payout that fails part-way stays
// in its last observed status; recovery goes through the platform's incomplete
// payment listing, never through this journal.
const (
	StatusCreated   = "created"
	StatusSubmitted = "submitted"
	StatusCompleted = "completed"
)

// Record is one journal row tracking a payout attempt.
type Record struct {
	PaymentID string
	UserUID   string
	Amount    float64
	Memo      string
	Status    string
	TxID      string
	UpdatedAt time.Time
}
