package repository

import (
	"context"

	"onboardflow/internal/preboarding/domain"
)

// Repository defines persistence for preboarding checklist items.
type Repository interface {
	// GetByID returns the item for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// ListByUser returns the user's items in checklist order.
	ListByUser(ctx context.Context, userID string) ([]domain.Item, error)
	// Save inserts or replaces the item.
	Save(ctx context.Context, it domain.Item) error
}
