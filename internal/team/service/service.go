// Package service serves a manager's team roster and action queue.
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
	"onboardflow/internal/platform/errkind"
	"onboardflow/internal/team/actionqueue"
	"onboardflow/internal/team/domain"
	"onboardflow/internal/team/repository"
)

// ErrInvalidMember is returned by AddMember for a member without id or with out-of-range scores.
var ErrInvalidMember = errkind.New(errkind.Data, "team member needs an id and scores between 0 and 100")

// Service is the host-facing team API.
type Service struct {
	repo       repository.Repository
	classifier actionqueue.Classifier
	audit      audit.AuditLogger
	notifier   *notify.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
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

// WithClassifier replaces the built-in burnout thresholds (e.g. with the Rego policy engine).
func WithClassifier(c actionqueue.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithAudit records staffing plans to the activity log.
func WithAudit(a audit.AuditLogger) Option {
	return func(s *Service) { s.audit = a }
}

// WithNotifier alerts when a staffing plan pushes a member into high burnout risk.
func WithNotifier(d *notify.Dispatcher) Option {
	return func(s *Service) { s.notifier = d }
}

// NewService returns a Service over repo. logger may be nil.
func NewService(repo repository.Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		classifier: actionqueue.Thresholds{},
		logger:     logging.OrNop(logger),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roster returns the manager's team in roster order.
func (s *Service) Roster(ctx context.Context, managerID string) ([]domain.Member, error) {
	team, err := s.repo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("team: list %s: %w", managerID, err)
	}
	return team, nil
}

// AddMember adds or replaces a member on a roster.
func (s *Service) AddMember(ctx context.Context, m domain.Member) error {
	m.ID = strings.TrimSpace(m.ID)
	if m.ID == "" || m.BurnoutScore < 0 || m.BurnoutScore > 100 || m.CurrentLoad < 0 || m.CurrentLoad > domain.MaxLoad {
		return ErrInvalidMember
	}
	for _, v := range m.SkillScores {
		if v < 0 || v > 100 {
			return ErrInvalidMember
		}
	}
	if err := s.repo.SaveMember(ctx, m); err != nil {
		return fmt.Errorf("team: save %s: %w", m.ID, err)
	}
	return nil
}

func (s *Service) generate(ctx context.Context, team []domain.Member) []domain.ActionItem {
	items, err := actionqueue.GenerateWith(ctx, team, s.classifier)
	if err != nil {
		s.logger.Warn("team: burnout classifier failed, using built-in thresholds", zap.Error(err))
		return actionqueue.Generate(team)
	}
	return items
}

// GenerateActionQueue derives the manager's queue from the current roster and merges the
// acknowledgement set into it.
func (s *Service) GenerateActionQueue(ctx context.Context, managerID string) ([]domain.ActionItem, error) {
	team, err := s.Roster(ctx, managerID)
	if err != nil {
		return nil, err
	}
	acks, err := s.repo.Acknowledgements(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("team: acknowledgements %s: %w", managerID, err)
	}
	return actionqueue.Merge(s.generate(ctx, team), acks), nil
}

// AcknowledgeAction records that the manager acted on actionID. The team data is not changed.
func (s *Service) AcknowledgeAction(ctx context.Context, managerID, actionID string) ([]domain.ActionItem, error) {
	team, err := s.Roster(ctx, managerID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, it := range s.generate(ctx, team) {
		if it.ID == actionID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("team: action %s: %w", actionID, domain.ErrActionNotFound)
	}
	if err := s.repo.Acknowledge(ctx, managerID, actionID, s.now()); err != nil {
		return nil, fmt.Errorf("team: acknowledge %s: %w", actionID, err)
	}
	return s.GenerateActionQueue(ctx, managerID)
}

// ApplyStaffingPlan assigns loads to members of the manager's team. Each member may appear once.
// The whole plan is validated before anything is saved, and the changed members are saved
// together. Returns the updated roster.
func (s *Service) ApplyStaffingPlan(ctx context.Context, managerID string, plan []domain.Assignment) ([]domain.Member, error) {
	team, err := s.Roster(ctx, managerID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(team))
	for i, m := range team {
		index[m.ID] = i
	}
	updated := make([]domain.Member, len(team))
	copy(updated, team)
	changed := make(map[string]bool)
	for _, a := range plan {
		i, ok := index[a.MemberID]
		if !ok {
			return nil, fmt.Errorf("team: member %s: %w", a.MemberID, domain.ErrMemberNotFound)
		}
		if changed[a.MemberID] {
			return nil, fmt.Errorf("team: member %s: %w", a.MemberID, domain.ErrDuplicateAssignment)
		}
		m, err := domain.ApplyLoad(updated[i], a.Load)
		if err != nil {
			return nil, fmt.Errorf("team: member %s load %.0f: %w", a.MemberID, a.Load, err)
		}
		updated[i] = m
		changed[m.ID] = true
	}
	var toSave []domain.Member
	for _, m := range updated {
		if changed[m.ID] {
			toSave = append(toSave, m)
		}
	}
	if len(toSave) > 0 {
		if err := s.repo.SaveMembers(ctx, toSave); err != nil {
			return nil, fmt.Errorf("team: save staffing plan: %w", err)
		}
	}
	for i, m := range updated {
		if !changed[m.ID] {
			continue
		}
		if domain.Classify(m).Priority == domain.PriorityHigh && domain.Classify(team[i]).Priority != domain.PriorityHigh {
			s.logger.Warn("team: staffing plan raised burnout risk",
				zap.String("member_id", m.ID), zap.Float64("burnout_score", m.BurnoutScore), zap.Float64("current_load", m.CurrentLoad))
			s.notifier.Send(notify.Notification{
				Kind:     notify.KindBurnoutAlert,
				Message:  fmt.Sprintf("%s is now at high burnout risk (score %.0f, load %.0f%%)", m.DisplayName(), m.BurnoutScore, m.CurrentLoad),
				Severity: notify.SeverityCritical,
				UserID:   managerID,
				Subject:  m.ID,
			})
		}
	}
	if s.audit != nil && len(changed) > 0 {
		s.audit.LogEvent(ctx, managerID, auditdomain.ActionStaffingApplied, "team",
			fmt.Sprintf(`{"members":%d}`, len(changed)))
	}
	return updated, nil
}
