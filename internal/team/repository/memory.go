package repository

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"onboardflow/internal/team/domain"
)

// MemoryRepository keeps rosters and acknowledgements in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	order   []string
	members map[string]domain.Member
	acks    map[string]map[string]time.Time
}

// NewMemoryRepository returns an empty in-memory team store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		members: make(map[string]domain.Member),
		acks:    make(map[string]map[string]time.Time),
	}
}

func clone(m domain.Member) domain.Member {
	m.SkillScores = maps.Clone(m.SkillScores)
	m.BurnoutSignals = slices.Clone(m.BurnoutSignals)
	return m
}

func (r *MemoryRepository) ListByManager(ctx context.Context, managerID string) ([]domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Member
	for _, id := range r.order {
		if m := r.members[id]; m.ManagerID == managerID {
			out = append(out, clone(m))
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	m = clone(m)
	return &m, nil
}

func (r *MemoryRepository) SaveMember(ctx context.Context, m domain.Member) error {
	return r.SaveMembers(ctx, []domain.Member{m})
}

func (r *MemoryRepository) SaveMembers(ctx context.Context, members []domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range members {
		if _, ok := r.members[m.ID]; !ok {
			r.order = append(r.order, m.ID)
		}
		r.members[m.ID] = clone(m)
	}
	return nil
}

func (r *MemoryRepository) Acknowledge(ctx context.Context, managerID, actionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.acks[managerID]
	if !ok {
		set = make(map[string]time.Time)
		r.acks[managerID] = set
	}
	if _, ok := set[actionID]; !ok {
		set[actionID] = at
	}
	return nil
}

func (r *MemoryRepository) Acknowledgements(ctx context.Context, managerID string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.acks[managerID]))
	for id := range r.acks[managerID] {
		out[id] = true
	}
	return out, nil
}
