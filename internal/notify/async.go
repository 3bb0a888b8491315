package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"onboardflow/internal/logging"
)

// sendTimeout is the max time allowed for a single async delivery. Used by Dispatcher.Send and
// by ShutdownDrainDuration.
const sendTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after gRPC GracefulStop before shutting down OTel
// providers, so in-flight notifications have time to complete. Must be >= sendTimeout.
const ShutdownDrainDuration = sendTimeout

// Dispatcher sends notifications without blocking the caller.
type Dispatcher struct {
	sink   Sink
	logger *zap.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

// NewDispatcher returns a Dispatcher over sink. A nil sink discards everything; logger may be nil.
func NewDispatcher(sink Sink, logger *zap.Logger) *Dispatcher {
	if sink == nil {
		sink = Nop{}
	}
	return &Dispatcher{
		sink:   sink,
		logger: logging.OrNop(logger),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Send delivers n in a goroutine with a short timeout. Request cancellation does not abort an
// in-flight delivery. Errors are logged. A nil Dispatcher is a no-op.
func (d *Dispatcher) Send(n Notification) {
	if d == nil {
		return
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.now()
	}
	if n.Severity == "" {
		n.Severity = SeverityInfo
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := d.sink.Notify(ctx, n); err != nil {
			d.logger.Warn("notify: async send failed", zap.String("kind", n.Kind), zap.Error(err))
		}
	}()
}

// Drain waits for in-flight sends or until ctx is done.
func (d *Dispatcher) Drain(ctx context.Context) error {
	if d == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
