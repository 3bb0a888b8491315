package repository

import (
	"context"
	"time"

	"onboardflow/internal/team/domain"
)

// Repository defines persistence for team rosters and acknowledged actions.
type Repository interface {
	// ListByManager returns the manager's team in roster order.
	ListByManager(ctx context.Context, managerID string) ([]domain.Member, error)
	// GetMember returns the member for id, or nil if not found.
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	// SaveMember inserts or replaces the member, keeping its roster position.
	SaveMember(ctx context.Context, m domain.Member) error
	// SaveMembers stores every member or none of them.
	SaveMembers(ctx context.Context, members []domain.Member) error
	// Acknowledge records that the manager acted on actionID. Repeats are no-ops.
	Acknowledge(ctx context.Context, managerID, actionID string, at time.Time) error
	// Acknowledgements returns the manager's acknowledged action ids.
	Acknowledgements(ctx context.Context, managerID string) (map[string]bool, error)
}
