package repository

import (
	"context"
	"sync"

	"onboardflow/internal/profile/domain"
)

// MemoryRepository keeps encoded profiles in memory. Payloads are stored encoded so reads
// go through the same decode and validation path as the Postgres repository.
type MemoryRepository struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemoryRepository returns an empty in-memory profile store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{m: make(map[string][]byte)}
}

// Get returns the profile stored under key, or nil if none.
func (r *MemoryRepository) Get(ctx context.Context, key string) (*domain.UserProfile, error) {
	r.mu.RLock()
	payload, ok := r.m[key]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decode(payload)
}

// Set stores p under key, replacing any previous value.
func (r *MemoryRepository) Set(ctx context.Context, key string, p *domain.UserProfile) error {
	payload, err := encode(p)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = payload
	return nil
}

// SetRaw stores an already-encoded payload under key without validation. Used by imports and tests.
func (r *MemoryRepository) SetRaw(key string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = append([]byte(nil), payload...)
}
