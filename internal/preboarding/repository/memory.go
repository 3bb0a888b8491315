package repository

import (
	"context"
	"sync"

	"onboardflow/internal/preboarding/domain"
)

// MemoryRepository keeps items in process memory in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.Item
}

// NewMemoryRepository returns an empty in-memory item store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]domain.Item)}
}

// GetByID returns the item for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// ListByUser returns the user's items in insertion order.
func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Item
	for _, id := range r.order {
		if it := r.items[id]; it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

// Save inserts or replaces the item.
func (r *MemoryRepository) Save(ctx context.Context, it domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.ID]; !ok {
		r.order = append(r.order, it.ID)
	}
	r.items[it.ID] = it
	return nil
}
