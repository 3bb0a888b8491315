// Package service drives the onboarding journey for one user: it loads the profile through the
// store handle, applies a state-machine transition and persists the result.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"onboardflow/internal/audit"
	auditdomain "onboardflow/internal/audit/domain"
	"onboardflow/internal/logging"
	"onboardflow/internal/notify"
	"onboardflow/internal/onboarding/machine"
	"onboardflow/internal/profile/domain"
	profilesvc "onboardflow/internal/profile/service"
)

// Journey is the host-facing onboarding API.
type Journey struct {
	store    *profilesvc.Store
	audit    audit.AuditLogger
	notifier *notify.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Journey.
type Option func(*Journey)

// WithClock injects a deterministic clock.
func WithClock(clock func() time.Time) Option {
	return func(j *Journey) {
		if clock != nil {
			j.now = clock
		}
	}
}

// WithAudit records day completions, signoffs and graduations to the activity log.
func WithAudit(a audit.AuditLogger) Option {
	return func(j *Journey) { j.audit = a }
}

// WithNotifier sends notifications on day completion and graduation.
func WithNotifier(d *notify.Dispatcher) Option {
	return func(j *Journey) { j.notifier = d }
}

// NewJourney returns a Journey over store. logger may be nil.
func NewJourney(store *profilesvc.Store, logger *zap.Logger, opts ...Option) *Journey {
	j := &Journey{
		store:  store,
		logger: logging.OrNop(logger),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Profile returns the current profile for key.
func (j *Journey) Profile(ctx context.Context, key string) (*domain.UserProfile, error) {
	return j.store.Load(ctx, key)
}

// Days returns the navigation status of every day visible to the user.
func (j *Journey) Days(ctx context.Context, key string) ([]machine.DayView, error) {
	p, err := j.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return machine.Days(*p), nil
}

type transition func(domain.UserProfile) (domain.UserProfile, error)

// apply loads, transitions and saves. Rejected transitions leave the stored profile untouched.
func (j *Journey) apply(ctx context.Context, key, op string, t transition) (*domain.UserProfile, error) {
	p, err := j.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	next, err := t(*p)
	if err != nil {
		j.logger.Debug("onboarding: transition rejected",
			zap.String("key", key), zap.String("op", op), zap.Error(err))
		return nil, err
	}
	if err := j.store.Save(ctx, key, &next); err != nil {
		return nil, fmt.Errorf("onboarding: %s: %w", op, err)
	}
	return &next, nil
}

func (j *Journey) logEvent(ctx context.Context, userID, action, metadata string) {
	if j.audit == nil {
		return
	}
	j.audit.LogEvent(ctx, userID, action, "onboarding", metadata)
}

// CompleteDay completes the active day d. Fails with machine.ErrDayLocked for any other day.
func (j *Journey) CompleteDay(ctx context.Context, key string, d int) (*domain.UserProfile, error) {
	p, err := j.apply(ctx, key, "complete_day", func(p domain.UserProfile) (domain.UserProfile, error) {
		return machine.CompleteDay(p, d, j.now())
	})
	if err != nil {
		return nil, err
	}
	j.logEvent(ctx, p.ID, auditdomain.ActionDayCompleted, fmt.Sprintf(`{"day":%d}`, d))
	j.notifier.Send(notify.Notification{
		Kind:     notify.KindDayCompleted,
		Message:  fmt.Sprintf("%s completed onboarding day %d", displayName(p), d),
		Severity: notify.SeverityInfo,
		UserID:   p.ID,
	})
	return p, nil
}

// Advance moves the Day-5 flow one phase forward.
func (j *Journey) Advance(ctx context.Context, key string) (*domain.UserProfile, error) {
	return j.apply(ctx, key, "advance_phase", machine.Advance)
}

// GoTo navigates the Day-5 flow back to an already visited phase.
func (j *Journey) GoTo(ctx context.Context, key string, phase domain.Phase) (*domain.UserProfile, error) {
	return j.apply(ctx, key, "go_to_phase", func(p domain.UserProfile) (domain.UserProfile, error) {
		return machine.GoTo(p, phase)
	})
}

// RecordSignoff stores the manager's signoff for the user under key.
func (j *Journey) RecordSignoff(ctx context.Context, key, managerID, note string) (*domain.UserProfile, error) {
	p, err := j.apply(ctx, key, "record_signoff", func(p domain.UserProfile) (domain.UserProfile, error) {
		return machine.RecordSignoff(p, managerID, note, j.now())
	})
	if err != nil {
		return nil, err
	}
	j.logEvent(ctx, p.ID, auditdomain.ActionSignoffRecorded, fmt.Sprintf(`{"manager_id":%q}`, p.Day5.Signoff.ManagerID))
	return p, nil
}

// SubmitFeedback stores the new hire's feedback.
func (j *Journey) SubmitFeedback(ctx context.Context, key string, rating int, comment string) (*domain.UserProfile, error) {
	return j.apply(ctx, key, "submit_feedback", func(p domain.UserProfile) (domain.UserProfile, error) {
		return machine.SubmitFeedback(p, rating, comment, j.now())
	})
}

// Graduate completes onboarding. Fails with machine.ErrFeedbackRequired until feedback is in.
// Switching the app into its post-onboarding mode is left to whoever consumes the notification.
func (j *Journey) Graduate(ctx context.Context, key string) (*domain.UserProfile, error) {
	p, err := j.apply(ctx, key, "graduate", func(p domain.UserProfile) (domain.UserProfile, error) {
		return machine.Graduate(p, j.now())
	})
	if err != nil {
		return nil, err
	}
	j.logger.Info("onboarding: graduated", zap.String("user_id", p.ID))
	j.logEvent(ctx, p.ID, auditdomain.ActionGraduated, "")
	j.notifier.Send(notify.Notification{
		Kind:     notify.KindGraduated,
		Message:  fmt.Sprintf("%s graduated from onboarding", displayName(p)),
		Severity: notify.SeverityInfo,
		UserID:   p.ID,
	})
	return p, nil
}

func displayName(p *domain.UserProfile) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
