// Package poller refreshes preboarding readiness in the background. Each refresh carries a
// request token; a refresh that resolves after a newer one was issued is discarded.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"onboardflow/internal/logging"
	"onboardflow/internal/platform/latest"
	"onboardflow/internal/preboarding/service"
)

// Source loads a fresh readiness snapshot.
type Source interface {
	Readiness(ctx context.Context, userID string) (service.Snapshot, error)
}

// DefaultWatchTTL is how long a user stays watched after their last Watch call.
const DefaultWatchTTL = 24 * time.Hour

// Poller keeps the latest readiness snapshot of every watched user.
type Poller struct {
	source   Source
	interval time.Duration
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	watches   map[string]*watch
	snapshots map[string]service.Snapshot
	onUpdate  func(service.Snapshot)
}

type watch struct {
	tracker latest.Tracker
	seen    time.Time
}

// Option customizes a Poller.
type Option func(*Poller)

// WithWatchTTL evicts users that were not watched again within ttl. ttl <= 0 keeps the default.
func WithWatchTTL(ttl time.Duration) Option {
	return func(p *Poller) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithClock injects a deterministic clock.
func WithClock(clock func() time.Time) Option {
	return func(p *Poller) {
		if clock != nil {
			p.now = clock
		}
	}
}

// New returns a Poller that refreshes every interval. logger may be nil.
func New(source Source, interval time.Duration, logger *zap.Logger, opts ...Option) *Poller {
	p := &Poller{
		source:    source,
		interval:  interval,
		ttl:       DefaultWatchTTL,
		logger:    logging.OrNop(logger),
		now:       time.Now,
		watches:   make(map[string]*watch),
		snapshots: make(map[string]service.Snapshot),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnUpdate registers fn to be called with every snapshot that is applied.
func (p *Poller) OnUpdate(fn func(service.Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = fn
}

// Watch adds userID to the refresh set, or renews its TTL.
func (p *Poller) Watch(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watchLocked(userID)
}

func (p *Poller) watchLocked(userID string) *watch {
	w, ok := p.watches[userID]
	if !ok {
		w = &watch{}
		p.watches[userID] = w
	}
	w.seen = p.now()
	return w
}

// Unwatch removes userID from the refresh set and drops its snapshot. A refresh in flight for
// userID is discarded.
func (p *Poller) Unwatch(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.watches, userID)
	delete(p.snapshots, userID)
}

// Snapshot returns the last applied snapshot for userID.
func (p *Poller) Snapshot(userID string) (service.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.snapshots[userID]
	return s, ok
}

// Refresh loads a snapshot for userID and applies it unless a newer refresh for the same user was
// issued while it was in flight, or the user was unwatched; then it returns latest.ErrStale and the
// snapshot is dropped. Refreshing an unwatched user watches it.
func (p *Poller) Refresh(ctx context.Context, userID string) (service.Snapshot, error) {
	p.mu.Lock()
	w, ok := p.watches[userID]
	if !ok {
		w = p.watchLocked(userID)
	}
	tok := w.tracker.Issue()
	p.mu.Unlock()

	snap, err := p.source.Readiness(ctx, userID)
	if err != nil {
		return service.Snapshot{}, err
	}
	p.mu.Lock()
	if p.watches[userID] != w || !w.tracker.IsLatest(tok) {
		p.mu.Unlock()
		p.logger.Debug("preboarding: stale refresh discarded", zap.String("user_id", userID), zap.Uint64("token", uint64(tok)))
		return service.Snapshot{}, latest.ErrStale
	}
	p.snapshots[userID] = snap
	fn := p.onUpdate
	p.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
	return snap, nil
}

// watched evicts users whose TTL expired and returns the rest.
func (p *Poller) watched() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := p.now().Add(-p.ttl)
	out := make([]string, 0, len(p.watches))
	for id, w := range p.watches {
		if w.seen.Before(cutoff) {
			delete(p.watches, id)
			delete(p.snapshots, id)
			p.logger.Debug("preboarding: watch expired", zap.String("user_id", id))
			continue
		}
		out = append(out, id)
	}
	return out
}

// Run refreshes every watched user each interval until ctx is done. A refresh failure is logged
// and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, id := range p.watched() {
				if _, err := p.Refresh(ctx, id); err != nil && ctx.Err() == nil && !errors.Is(err, latest.ErrStale) {
					p.logger.Warn("preboarding: refresh failed", zap.String("user_id", id), zap.Error(err))
				}
			}
		}
	}
}
