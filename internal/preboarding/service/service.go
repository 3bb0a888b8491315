// Package service manages a user's preboarding checklist and derives its readiness score.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"onboardflow/internal/audit"
	auditdomain "onboardflow/internal/audit/domain"
	"onboardflow/internal/logging"
	"onboardflow/internal/notify"
	"onboardflow/internal/preboarding/domain"
	"onboardflow/internal/preboarding/repository"
)

// Snapshot is a user's checklist together with the score derived from it.
type Snapshot struct {
	UserID string                `json:"user_id"`
	Items  []domain.Item         `json:"items"`
	Score  domain.ReadinessScore `json:"score"`
}

// Service is the host-facing preboarding API.
type Service struct {
	repo     repository.Repository
	audit    audit.AuditLogger
	notifier *notify.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock injects a deterministic clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithAudit records escalations to the activity log.
func WithAudit(a audit.AuditLogger) Option {
	return func(s *Service) { s.audit = a }
}

// WithNotifier sends a notification for every escalation.
func WithNotifier(d *notify.Dispatcher) Option {
	return func(s *Service) { s.notifier = d }
}

// NewService returns a Service over repo. logger may be nil.
func NewService(repo repository.Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logging.OrNop(logger),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Readiness recomputes the score from the user's current items.
func (s *Service) Readiness(ctx context.Context, userID string) (Snapshot, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("preboarding: list %s: %w", userID, err)
	}
	return Snapshot{UserID: userID, Items: items, Score: domain.Score(items)}, nil
}

// Item returns the item with id, or an error wrapping domain.ErrItemNotFound.
func (s *Service) Item(ctx context.Context, id string) (domain.Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("preboarding: get %s: %w", id, err)
	}
	if it == nil {
		return domain.Item{}, fmt.Errorf("preboarding: item %s: %w", id, domain.ErrItemNotFound)
	}
	return *it, nil
}

// UpdateStatus sets the item's status. ESCALATED must go through Escalate.
func (s *Service) UpdateStatus(ctx context.Context, itemID string, status domain.Status) (domain.Item, error) {
	it, err := s.Item(ctx, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	next, err := domain.UpdateStatus(it, status, s.now())
	if err != nil {
		return domain.Item{}, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return domain.Item{}, fmt.Errorf("preboarding: save %s: %w", itemID, err)
	}
	return next, nil
}

// Escalate moves a BLOCKED item to ESCALATED with target as the new responsible party.
func (s *Service) Escalate(ctx context.Context, itemID, target string) (domain.Item, error) {
	it, err := s.Item(ctx, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	next, err := domain.Escalate(it, target, s.now())
	if err != nil {
		return domain.Item{}, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return domain.Item{}, fmt.Errorf("preboarding: save %s: %w", itemID, err)
	}
	s.logger.Info("preboarding: item escalated",
		zap.String("item_id", next.ID), zap.String("user_id", next.UserID), zap.String("escalated_to", next.EscalatedTo))
	if s.audit != nil {
		s.audit.LogEvent(ctx, next.UserID, auditdomain.ActionItemEscalated, "preboarding",
			fmt.Sprintf(`{"item_id":%q,"escalated_to":%q}`, next.ID, next.EscalatedTo))
	}
	s.notifier.Send(notify.Notification{
		Kind:     notify.KindItemEscalated,
		Message:  fmt.Sprintf("%q is blocked and was escalated to %s", next.Title, next.EscalatedTo),
		Severity: notify.SeverityWarning,
		UserID:   next.UserID,
		Subject:  next.ID,
	})
	return next, nil
}

// Provision creates the user's checklist from templates. Items that already exist are kept as
// they are, so re-provisioning never resets progress. Item ids are "<userID>:<templateID>".
func (s *Service) Provision(ctx context.Context, userID string, templates []domain.Item) ([]domain.Item, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("preboarding: provision: user id is required")
	}
	now := s.now()
	out := make([]domain.Item, 0, len(templates))
	for _, tpl := range templates {
		id := userID + ":" + tpl.ID
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("preboarding: get %s: %w", id, err)
		}
		if existing != nil {
			out = append(out, *existing)
			continue
		}
		it := tpl
		it.ID = id
		it.UserID = userID
		if it.Status == "" {
			it.Status = domain.StatusPending
		}
		it.UpdatedAt = now
		if err := s.repo.Save(ctx, it); err != nil {
			return nil, fmt.Errorf("preboarding: save %s: %w", id, err)
		}
		out = append(out, it)
	}
	return out, nil
}
