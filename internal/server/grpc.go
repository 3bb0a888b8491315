package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	engagementv1 "onboardflow/api/engagement/v1"
	auditrepo "onboardflow/internal/audit/repository"
	"onboardflow/internal/engagement/handler"
	"onboardflow/internal/logging"
	"onboardflow/internal/server/interceptors"
)

// Health checks carry no identity and are not logged.
var publicMethods = map[string]bool{
	healthpb.Health_Check_FullMethodName: true,
	healthpb.Health_Watch_FullMethodName: true,
	"/grpc.health.v1.Health/List":        true,
}

// The activity log is not audited into itself.
var auditSkip = map[string]bool{
	healthpb.Health_Check_FullMethodName:    true,
	healthpb.Health_Watch_FullMethodName:    true,
	"/grpc.health.v1.Health/List":           true,
	engagementv1.FullMethod("ListActivity"): true,
}

// Deps holds the service dependencies for gRPC handlers.
type Deps struct {
	// Services backs EngagementService. Nil services make their RPCs return Unimplemented.
	Services handler.Services
	// AuditRepo is the activity log for the audit interceptor. If nil, no RPCs are audited.
	AuditRepo auditrepo.Repository
	// Health is the standard health server. If nil, the health service is not registered.
	Health *health.Server
	// Meter records RPC failure counts. If nil, no metrics are recorded.
	Meter metric.Meter
}

// RegisterServices registers all gRPC services with the given server.
//
// Service → handler mapping:
//   - onboardflow.v1.EngagementService → internal/engagement/handler
//   - grpc.health.v1.Health            → grpc/health (status driven by internal/health)
func RegisterServices(s grpc.ServiceRegistrar, deps Deps, logger *zap.Logger) {
	engagementv1.RegisterEngagementServiceServer(s, handler.NewServer(deps.Services, logger))
	if deps.Health != nil {
		healthpb.RegisterHealthServer(s, deps.Health)
	}
}

// NewServer returns a gRPC server with identity, logging and audit interceptors, OpenTelemetry
// instrumentation and every service registered. logger may be nil.
func NewServer(deps Deps, logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	logger = logging.OrNop(logger)
	base := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.IdentityUnary(publicMethods),
			interceptors.LoggingUnary(logger, deps.Meter, publicMethods),
			interceptors.AuditUnary(deps.AuditRepo, auditSkip, logger),
		),
	}
	s := grpc.NewServer(append(base, opts...)...)
	RegisterServices(s, deps, logger)
	return s
}
