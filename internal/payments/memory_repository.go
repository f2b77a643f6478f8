package payments

import (
	"context"
	"sync"
	"time"
)

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

func (r *memoryRepository) ListByStatus(_ context.Context, status string) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Record
	for _, record := range r.storage {
		if record.Status == status {
			out = append(out, record)
		}
	}
	return out, nil
}
