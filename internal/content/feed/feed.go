// Package feed is the host-facing daily feed: it resolves the user's profile, hides quarantined
// cards, runs the generation boundary and explains individual cards.
package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"onboardflow/internal/content/domain"
	"onboardflow/internal/content/explainer"
	"onboardflow/internal/content/generator"
	"onboardflow/internal/content/selection"
	"onboardflow/internal/logging"
	"onboardflow/internal/platform/errkind"
	profilesvc "onboardflow/internal/profile/service"
)

// ErrCardNotFound is returned when explaining a card the feed cannot produce.
var ErrCardNotFound = errkind.New(errkind.NotFound, "card not found")

// Moderation is the part of the moderation service the feed needs.
type Moderation interface {
	Quarantined(ctx context.Context) (map[string]bool, error)
	Annotate(ctx context.Context, cards []domain.Card) ([]domain.Card, error)
}

// Service serves the daily feed.
type Service struct {
	store      *profilesvc.Store
	catalog    *domain.Catalog
	gen        *generator.Service
	moderation Moderation
	logger     *zap.Logger
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock injects a deterministic clock used when a request carries no date.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithModeration hides quarantined cards and annotates flag counters.
func WithModeration(m Moderation) Option {
	return func(s *Service) { s.moderation = m }
}

// NewService returns a feed over catalog. gen may be nil, in which case selection is rule-based.
func NewService(store *profilesvc.Store, catalog *domain.Catalog, gen *generator.Service, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
		gen:     gen,
		logger:  logging.OrNop(logger),
		now:     func() time.Time { return time.Now().UTC() },
	}
	if s.gen == nil {
		s.gen = generator.NewService(nil, 0, logger)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the feed selects from.
func (s *Service) Catalog() *domain.Catalog { return s.catalog }

func (s *Service) dateOr(date time.Time) time.Time {
	if date.IsZero() {
		return s.now()
	}
	return date
}

// SelectDailyCards returns the day's cards for the user stored under key. A zero date means today.
// It returns latest.ErrStale when a newer request for the same user superseded this one.
func (s *Service) SelectDailyCards(ctx context.Context, key string, date time.Time) (generator.Result, error) {
	p, err := s.store.Load(ctx, key)
	if err != nil {
		return generator.Result{}, err
	}
	var excluded map[string]bool
	if s.moderation != nil {
		if excluded, err = s.moderation.Quarantined(ctx); err != nil {
			return generator.Result{}, fmt.Errorf("feed: %w", err)
		}
	}
	res, err := s.gen.Daily(ctx, generator.Request{User: *p, Date: s.dateOr(date), Catalog: s.catalog, Excluded: excluded})
	if err != nil {
		return generator.Result{}, err
	}
	if s.moderation != nil {
		if res.Cards, err = s.moderation.Annotate(ctx, res.Cards); err != nil {
			return generator.Result{}, fmt.Errorf("feed: %w", err)
		}
	}
	return res, nil
}

// ExplainRequest is the reader context for Explain.
type ExplainRequest struct {
	Date                time.Time
	RecentlySeenCardIDs []string
	CurrentWorkload     float64
	RecentKPIAlerts     []string
	PendingDeadlines    []string
}

// Explain returns why cardID was shown to the user stored under key.
func (s *Service) Explain(ctx context.Context, key, cardID string, req ExplainRequest) (string, error) {
	card, ok := selection.Lookup(s.catalog, cardID)
	if !ok {
		return "", fmt.Errorf("feed: card %s: %w", cardID, ErrCardNotFound)
	}
	p, err := s.store.Load(ctx, key)
	if err != nil {
		return "", err
	}
	return explainer.Explain(card, explainer.Context{
		Role:                string(p.Role),
		JobTitle:            p.JobTitle,
		Bucket:              domain.BucketFor(s.dateOr(req.Date)),
		RecentlySeenCardIDs: req.RecentlySeenCardIDs,
		CurrentWorkload:     req.CurrentWorkload,
		RecentKPIAlerts:     req.RecentKPIAlerts,
		PendingDeadlines:    req.PendingDeadlines,
	}), nil
}
