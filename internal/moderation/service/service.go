// Package service accepts card flags and serves the moderation state hosts use to hide
// quarantined cards.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"onboardflow/internal/audit"
	auditdomain "onboardflow/internal/audit/domain"
	content "onboardflow/internal/content/domain"
	"onboardflow/internal/logging"
	"onboardflow/internal/moderation/domain"
	"onboardflow/internal/moderation/repository"
	"onboardflow/internal/notify"
)

// FlagRequest is one reader's flag. An empty SubmissionID gets a generated one; clients that
// retry must resend the same id so the retry is rejected as a duplicate.
type FlagRequest struct {
	CardID       string        `json:"card_id"`
	UserID       string        `json:"user_id"`
	Reason       domain.Reason `json:"reason"`
	SubmissionID string        `json:"submission_id,omitempty"`
}

// Service is the host-facing moderation API.
type Service struct {
	repo     repository.Repository
	audit    audit.AuditLogger
	notifier *notify.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
	flags    metric.Int64Counter
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

// WithAudit records quarantines to the activity log.
func WithAudit(a audit.AuditLogger) Option {
	return func(s *Service) { s.audit = a }
}

// WithNotifier sends a notification when a card is quarantined.
func WithNotifier(d *notify.Dispatcher) Option {
	return func(s *Service) { s.notifier = d }
}

// WithMeter counts accepted flags on meter.
func WithMeter(meter metric.Meter) Option {
	return func(s *Service) {
		if meter != nil {
			s.initCounter(meter)
		}
	}
}

// NewService returns a Service over repo. logger may be nil.
func NewService(repo repository.Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logging.OrNop(logger),
		now:    func() time.Time { return time.Now().UTC() },
	}
	s.initCounter(noop.NewMeterProvider().Meter("onboardflow"))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) initCounter(meter metric.Meter) {
	if c, err := meter.Int64Counter("onboardflow.moderation.flags",
		metric.WithDescription("Card flags accepted")); err == nil {
		s.flags = c
	}
}

// State returns the moderation state of cardID.
func (s *Service) State(ctx context.Context, cardID string) (domain.State, error) {
	flags, err := s.repo.ListByCard(ctx, cardID)
	if err != nil {
		return domain.State{}, fmt.Errorf("moderation: list %s: %w", cardID, err)
	}
	return domain.Derive(cardID, flags), nil
}

// SubmitFlag records a flag and returns the card's new state. Invalid reasons and replayed
// submissions are rejected and leave the state unchanged.
func (s *Service) SubmitFlag(ctx context.Context, req FlagRequest) (domain.State, error) {
	cardID := strings.TrimSpace(req.CardID)
	if cardID == "" {
		return domain.State{}, domain.ErrMissingCardID
	}
	if !req.Reason.Valid() {
		return domain.State{}, fmt.Errorf("reason %q: %w", req.Reason, domain.ErrInvalidReason)
	}
	before, err := s.State(ctx, cardID)
	if err != nil {
		return domain.State{}, err
	}
	f := domain.Flag{
		SubmissionID: strings.TrimSpace(req.SubmissionID),
		CardID:       cardID,
		UserID:       req.UserID,
		Reason:       req.Reason,
		CreatedAt:    s.now(),
	}
	if f.SubmissionID == "" {
		f.SubmissionID = uuid.NewString()
	}
	if err := s.repo.Add(ctx, f); err != nil {
		return before, fmt.Errorf("moderation: flag %s: %w", cardID, err)
	}
	s.flags.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(f.Reason))))

	after, err := s.State(ctx, cardID)
	if err != nil {
		return domain.State{}, err
	}
	if !before.IsQuarantined() && after.IsQuarantined() {
		s.quarantined(ctx, f, after)
	}
	return after, nil
}

func (s *Service) quarantined(ctx context.Context, f domain.Flag, st domain.State) {
	s.logger.Warn("moderation: card quarantined",
		zap.String("card_id", st.CardID), zap.Int("flag_count", st.FlagCount), zap.String("last_reason", string(st.LastReason)))
	if s.audit != nil {
		s.audit.LogEvent(ctx, f.UserID, auditdomain.ActionCardQuarantined, "card",
			fmt.Sprintf(`{"card_id":%q,"flag_count":%d}`, st.CardID, st.FlagCount))
	}
	s.notifier.Send(notify.Notification{
		Kind:     notify.KindCardQuarantined,
		Message:  fmt.Sprintf("card %s was flagged %d times and is hidden from the feed", st.CardID, st.FlagCount),
		Severity: notify.SeverityWarning,
		UserID:   f.UserID,
		Subject:  st.CardID,
	})
}

// Quarantined returns the ids of every quarantined card.
func (s *Service) Quarantined(ctx context.Context) (map[string]bool, error) {
	counts, err := s.repo.CountsByCard(ctx)
	if err != nil {
		return nil, fmt.Errorf("moderation: counts: %w", err)
	}
	out := make(map[string]bool)
	for id, n := range counts {
		if (domain.State{FlagCount: n}).IsQuarantined() {
			out[id] = true
		}
	}
	return out, nil
}

// Annotate copies each card's flag counters onto a copy of cards.
func (s *Service) Annotate(ctx context.Context, cards []content.Card) ([]content.Card, error) {
	counts, err := s.repo.CountsByCard(ctx)
	if err != nil {
		return nil, fmt.Errorf("moderation: counts: %w", err)
	}
	out := make([]content.Card, len(cards))
	for i, c := range cards {
		if counts[c.ID] > 0 {
			st, err := s.State(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			c.FlagCount = st.FlagCount
			c.Flagged = st.Flagged
			c.LastFlagReason = string(st.LastReason)
		}
		out[i] = c
	}
	return out, nil
}
