package repository

import (
	"context"
	"fmt"
	"sync"

	"onboardflow/internal/moderation/domain"
)

// MemoryRepository keeps flags in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	seen  map[string]bool
	flags []domain.Flag
}

// NewMemoryRepository returns an empty in-memory flag store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{seen: make(map[string]bool)}
}

func (r *MemoryRepository) Add(ctx context.Context, f domain.Flag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[f.SubmissionID] {
		return fmt.Errorf("submission %s: %w", f.SubmissionID, domain.ErrDuplicateFlag)
	}
	r.seen[f.SubmissionID] = true
	r.flags = append(r.flags, f)
	return nil
}

func (r *MemoryRepository) ListByCard(ctx context.Context, cardID string) ([]domain.Flag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Flag
	for _, f := range r.flags {
		if f.CardID == cardID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *MemoryRepository) CountsByCard(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int)
	for _, f := range r.flags {
		out[f.CardID]++
	}
	return out, nil
}
