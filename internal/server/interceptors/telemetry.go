package interceptors

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"onboardflow/internal/logging"
)

// LoggingUnary returns a unary server interceptor that logs each RPC with its status code and
// duration, and counts failed RPCs by code on meter. meter may be nil.
// skipMethods is the set of full method names to not log (e.g. the health check).
func LoggingUnary(logger *zap.Logger, meter metric.Meter, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	logger = logging.OrNop(logger)
	var failures metric.Int64Counter
	if meter != nil {
		failures, _ = meter.Int64Counter("onboardflow.rpc.failures",
			metric.WithDescription("Engagement RPCs that returned a non-OK status"))
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if skipMethods[info.FullMethod] {
			return resp, err
		}
		code := status.Code(err)
		userID, _ := GetUserID(ctx)
		requestID, _ := GetRequestID(ctx)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
			zap.String("user_id", userID),
			zap.String("request_id", requestID),
		}
		switch code {
		case codes.OK:
			logger.Info("rpc", fields...)
		case codes.Internal, codes.Unknown, codes.Unavailable:
			logger.Error("rpc failed", append(fields, zap.Error(err))...)
		default:
			logger.Info("rpc rejected", append(fields, zap.Error(err))...)
		}
		if code != codes.OK && failures != nil {
			failures.Add(ctx, 1, metric.WithAttributes(
				attribute.String("rpc.method", info.FullMethod), attribute.String("rpc.code", code.String())))
		}
		return resp, err
	}
}
