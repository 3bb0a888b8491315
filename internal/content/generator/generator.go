// Package generator is the asynchronous daily-content boundary. A Generator produces the day's
// cards; when it fails or runs past its timeout the rule-based selection is served instead.
// Every request carries a token and only the latest request per user may deliver a result.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"onboardflow/internal/content/domain"
	"onboardflow/internal/content/selection"
	"onboardflow/internal/logging"
	"onboardflow/internal/platform/errkind"
	"onboardflow/internal/platform/latest"
	profile "onboardflow/internal/profile/domain"
)

// ErrGeneration wraps any failure of the primary generator.
var ErrGeneration = errkind.New(errkind.Generation, "content generation failed")

// Source names where a result came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceRuleBased Source = "rule_based"
)

// Request is one daily-content request.
type Request struct {
	User     profile.UserProfile
	Date     time.Time
	Catalog  *domain.Catalog
	Excluded map[string]bool
}

// Result is the delivered selection.
type Result struct {
	Cards  []domain.Card `json:"cards"`
	Source Source        `json:"source"`
	Token  latest.Token  `json:"token"`
}

// Generator produces the daily cards for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]domain.Card, error)
}

// SimulatedGenerator stands in for a generative model: it waits Latency and then returns the
// rule-based selection, so its output is identical to the fallback.
type SimulatedGenerator struct {
	Latency time.Duration
}

// Generate honors ctx while waiting.
func (g SimulatedGenerator) Generate(ctx context.Context, req Request) ([]domain.Card, error) {
	if g.Latency > 0 {
		t := time.NewTimer(g.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return selection.SelectExcluding(req.User, req.Date, req.Catalog, req.Excluded), nil
}

// Service runs the primary generator with a timeout and the rule-based fallback.
type Service struct {
	primary Generator
	timeout time.Duration
	logger  *zap.Logger
	tracer  trace.Tracer

	fallbacks metric.Int64Counter
	stale     metric.Int64Counter

	mu       sync.Mutex
	trackers map[string]*latest.Tracker
}

// Option customizes a Service.
type Option func(*Service)

// WithTelemetry records spans with tracer and counters with meter.
func WithTelemetry(tracer trace.Tracer, meter metric.Meter) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
		if meter != nil {
			s.initCounters(meter)
		}
	}
}

// NewService returns a Service. A nil primary means every request is served rule-based.
// timeout <= 0 disables the timeout. logger may be nil.
func NewService(primary Generator, timeout time.Duration, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		primary:  primary,
		timeout:  timeout,
		logger:   logging.OrNop(logger),
		tracer:   tracenoop.NewTracerProvider().Tracer("onboardflow"),
		trackers: make(map[string]*latest.Tracker),
	}
	s.initCounters(noop.NewMeterProvider().Meter("onboardflow"))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) initCounters(meter metric.Meter) {
	if c, err := meter.Int64Counter("onboardflow.content.generation_fallbacks",
		metric.WithDescription("Daily selections served by the rule-based fallback")); err == nil {
		s.fallbacks = c
	}
	if c, err := meter.Int64Counter("onboardflow.content.stale_results",
		metric.WithDescription("Daily selections discarded because a newer request was issued")); err == nil {
		s.stale = c
	}
}

// issue hands out the user's next token. Trackers exist only while a request for the user is
// in flight.
func (s *Service) issue(userID string) (*latest.Tracker, latest.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trackers[userID]
	if !ok {
		t = &latest.Tracker{}
		s.trackers[userID] = t
	}
	return t, t.Issue()
}

// settle reports whether tok is still the user's latest token and drops the tracker once its
// latest request resolves.
func (s *Service) settle(userID string, t *latest.Tracker, tok latest.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !t.IsLatest(tok) {
		return false
	}
	if s.trackers[userID] == t {
		delete(s.trackers, userID)
	}
	return true
}

func (s *Service) generate(ctx context.Context, req Request) ([]domain.Card, error) {
	if s.primary == nil {
		return nil, fmt.Errorf("no generator configured: %w", ErrGeneration)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	cards, err := s.primary.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if len(cards) > selection.DailyLimit {
		cards = cards[:selection.DailyLimit]
	}
	return cards, nil
}

// Daily returns the day's cards for req.User. Generation failures and timeouts are logged and
// served rule-based; they are never returned. The only error is latest.ErrStale, when a newer
// request for the same user was issued before this one resolved, or ctx being cancelled.
func (s *Service) Daily(ctx context.Context, req Request) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "content.daily",
		trace.WithAttributes(attribute.String("user.id", req.User.ID), attribute.String("weekday.bucket", string(domain.BucketFor(req.Date)))))
	defer span.End()

	t, tok := s.issue(req.User.ID)

	res := Result{Token: tok, Source: SourceGenerated}
	cards, err := s.generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.settle(req.User.ID, t, tok)
			span.SetStatus(codes.Error, "cancelled")
			return Result{}, ctx.Err()
		}
		s.logger.Warn("content: generation failed, serving rule-based selection",
			zap.String("user_id", req.User.ID), zap.Uint64("token", uint64(tok)), zap.Error(err))
		span.RecordError(err)
		s.fallbacks.Add(ctx, 1)
		cards = selection.SelectExcluding(req.User, req.Date, req.Catalog, req.Excluded)
		res.Source = SourceRuleBased
	}
	res.Cards = cards
	span.SetAttributes(attribute.String("content.source", string(res.Source)))

	if !s.settle(req.User.ID, t, tok) {
		s.stale.Add(ctx, 1)
		s.logger.Debug("content: stale result discarded",
			zap.String("user_id", req.User.ID), zap.Uint64("token", uint64(tok)), zap.Uint64("latest", uint64(t.Last())))
		return Result{}, latest.ErrStale
	}
	return res, nil
}
