// Package service provides the session-scoped profile store handle passed into the engines.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"onboardflow/internal/logging"
	"onboardflow/internal/platform/errkind"
	"onboardflow/internal/profile/domain"
	"onboardflow/internal/profile/repository"
)

// ErrEmptyKey is returned when a profile key is blank.
var ErrEmptyKey = errkind.New(errkind.Data, "profile key is required")

// ErrAlreadyEnrolled is returned by Enroll when a profile is already stored under the key.
var ErrAlreadyEnrolled = errkind.New(errkind.Conflict, "profile already enrolled")

// Store loads and saves user profiles. Missing or malformed profiles are replaced by a freshly
// initialized one; that recovery is logged and never surfaced as an error.
type Store struct {
	repo   repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewStore returns a Store backed by repo. logger may be nil.
func NewStore(repo repository.Repository, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: logging.OrNop(logger),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the profile stored under key. A missing or malformed record yields a fresh
// employee profile for key. Only repository failures are returned as errors.
func (s *Store) Load(ctx context.Context, key string) (*domain.UserProfile, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}
	p, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errkind.Is(err, errkind.Data) {
			return nil, fmt.Errorf("profile: load %s: %w", key, err)
		}
		s.logger.Warn("profile: malformed record replaced with fresh profile",
			zap.String("key", key), zap.Error(err))
		return domain.NewProfile(key, domain.RoleEmployee, s.now()), nil
	}
	if p == nil {
		s.logger.Info("profile: no stored record, initializing", zap.String("key", key))
		return domain.NewProfile(key, domain.RoleEmployee, s.now()), nil
	}
	return p, nil
}

// Save validates and stores p under key, stamping UpdatedAt.
func (s *Store) Save(ctx context.Context, key string, p *domain.UserProfile) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	if p == nil {
		return errors.New("profile: nil profile")
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	p.UpdatedAt = s.now()
	if err := s.repo.Set(ctx, key, p); err != nil {
		return fmt.Errorf("profile: save %s: %w", key, err)
	}
	return nil
}

// Enroll creates the profile for a new hire, positioned on the role's first day. An existing
// profile is never replaced; a malformed record is.
func (s *Store) Enroll(ctx context.Context, key string, seed domain.UserProfile) (*domain.UserProfile, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}
	existing, err := s.repo.Get(ctx, key)
	if err != nil && !errkind.Is(err, errkind.Data) {
		return nil, fmt.Errorf("profile: enroll %s: %w", key, err)
	}
	if err == nil && existing != nil {
		return nil, fmt.Errorf("profile: enroll %s: %w", key, ErrAlreadyEnrolled)
	}
	p := domain.NewProfile(key, seed.Role, s.now())
	p.Name = strings.TrimSpace(seed.Name)
	p.Email = strings.TrimSpace(seed.Email)
	p.JobTitle = strings.TrimSpace(seed.JobTitle)
	p.Department = strings.TrimSpace(seed.Department)
	p.RoleCategory = strings.TrimSpace(seed.RoleCategory)
	if err := s.Save(ctx, key, p); err != nil {
		return nil, err
	}
	return p, nil
}
