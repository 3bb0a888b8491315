package repository

import (
	"context"

	"onboardflow/internal/moderation/domain"
)

// Repository defines append-only persistence for card flags.
type Repository interface {
	// Add records the flag. It returns domain.ErrDuplicateFlag when the submission id exists.
	Add(ctx context.Context, f domain.Flag) error
	// ListByCard returns the card's flags in submission order.
	ListByCard(ctx context.Context, cardID string) ([]domain.Flag, error)
	// CountsByCard returns the flag count of every flagged card.
	CountsByCard(ctx context.Context) (map[string]int, error)
}
