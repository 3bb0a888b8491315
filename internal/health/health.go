// Package health reports readiness through the standard gRPC health service.
package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"onboardflow/internal/logging"
)

// ServiceName is the health service name of the engagement service.
const ServiceName = "onboardflow.v1.EngagementService"

const checkTimeout = 3 * time.Second

// Pinger is used for DB readiness (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker is used for policy engine readiness (e.g. the OPA evaluator).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Checker runs the readiness checks. Nil dependencies are skipped.
type Checker struct {
	pinger Pinger
	policy PolicyChecker
	logger *zap.Logger
}

// NewChecker returns a Checker. Any argument may be nil.
func NewChecker(pinger Pinger, policy PolicyChecker, logger *zap.Logger) *Checker {
	return &Checker{pinger: pinger, policy: policy, logger: logging.OrNop(logger)}
}

// Check returns nil when every configured dependency is ready.
func (c *Checker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	var errs []error
	if c.pinger != nil {
		if err := c.pinger.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	if c.policy != nil {
		if err := c.policy.HealthCheck(ctx); err != nil {
			errs = append(errs, fmt.Errorf("policy: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Update runs Check once and publishes the result on hs for both the overall and the engagement
// service. Returns the serving status it set.
func (c *Checker) Update(ctx context.Context, hs *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := c.Check(ctx); err != nil {
		c.logger.Warn("health: not ready", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(ServiceName, st)
	return st
}

// Run updates hs every interval until ctx is done, then marks everything NOT_SERVING.
func (c *Checker) Run(ctx context.Context, hs *health.Server, interval time.Duration) {
	c.Update(ctx, hs)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
			c.Update(ctx, hs)
		}
	}
}
