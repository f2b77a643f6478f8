package payments

import "time"

// Journal statuses. These mirror the lifecycle observed from the platform;
// the platform remains the source of truth and the journal is never consulted
// to make relay decisions.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment directions as reported by the platform.
const (
	DirectionUserToApp = "user_to_app"
	DirectionAppToUser = "app_to_user"
)

// Record is one journal row tracking a payment the gateway has touched.
type Record struct {
	PaymentID string
	UserUID   string
	Amount    float64
	Memo      string
	Direction string
	Status    string
	TxID      string
	UpdatedAt time.Time
}
