package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"onboardflow/internal/platform/errkind"
	"onboardflow/internal/profile/domain"
)

// ErrMalformedProfile is returned by Get when a stored payload cannot be decoded or fails validation.
var ErrMalformedProfile = errkind.New(errkind.Data, "stored profile is malformed")

// Repository is the profile store. Get returns (nil, nil) when no profile is stored under key.
type Repository interface {
	Get(ctx context.Context, key string) (*domain.UserProfile, error)
	Set(ctx context.Context, key string, p *domain.UserProfile) error
}

func encode(p *domain.UserProfile) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("profile: nil profile")
	}
	return json.Marshal(p)
}

func decode(payload []byte) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
	}
	if p.DayProgress == nil {
		p.DayProgress = make(map[int]domain.DayRecord)
	}
	return &p, nil
}
