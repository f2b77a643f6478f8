package payments

import (
	"context"
	"errors"
)

// ErrRecordNotFound indicates no journal row exists for the payment id.
var ErrRecordNotFound = errors.New("payment record not found")

// Repository persists the payment journal.
type Repository interface {
	Save(ctx context.Context, record Record) error
	Find(ctx context.Context, paymentID string) (Record, error)
	ListByStatus(ctx context.Context, status string) ([]Record, error)
}
