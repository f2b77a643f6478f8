package payouts

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRecordNotFound indicates no journal row exists for the payment id.
var ErrRecordNotFound = errors.New("payout record not found")

// Repository persists the payout journal.
type Repository interface {
	Save(ctx context.Context, record Record) error
	Find(ctx context.Context, paymentID string) (Record, error)
}

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Record
}

// NewMemoryRepository constructs an in-memory journal for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Record)}
}

func (r *memoryRepository) Save(_ context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.UpdatedAt = time.Now().UTC()
	r.storage[record.PaymentID] = record
	return nil
}

func (r *memoryRepository) Find(_ context.Context, paymentID string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.storage[paymentID]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return record, nil
}
